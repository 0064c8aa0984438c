package priceserver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"trolley/internal/domain"
)

const authTimeout = 30 * time.Second

// AuthResult holds the outcome of a successful login.
type AuthResult struct {
	Token    string
	Username string
}

// AuthFlow handles interactive email/password authentication against the
// price service.
type AuthFlow struct {
	logger     *slog.Logger
	httpClient *http.Client
}

// NewAuthFlow creates a new authentication flow
func NewAuthFlow(logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFlow{
		logger: logger,
		httpClient: &http.Client{
			Timeout: authTimeout,
		},
	}
}

// Run prompts the user for credentials and exchanges them for a session
// token.
func (f *AuthFlow) Run(ctx context.Context, serverURL string) (*AuthResult, error) {
	serverURL = strings.TrimRight(serverURL, "/")

	fmt.Println()
	fmt.Println("Trolley Sign In")
	fmt.Println("━━━━━━━━━━━━━━━")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read email: %w", err)
	}
	email = strings.TrimSpace(email)

	// Hidden password input
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	fmt.Println()
	fmt.Println("Authenticating...")

	token, err := f.authenticate(ctx, serverURL, email, password)
	if err != nil {
		return nil, err
	}

	f.logger.Info("authenticated", "email", email)
	return &AuthResult{Token: token, Username: email}, nil
}

// authenticate exchanges credentials for a bearer token.
func (f *AuthFlow) authenticate(ctx context.Context, serverURL, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/core/login/", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", domain.ErrServerOffline
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", domain.ErrAuthFailed
	}
	if resp.StatusCode != http.StatusOK {
		f.logger.Error("login failed", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var login loginResponse
	if err := json.Unmarshal(body, &login); err != nil {
		return "", fmt.Errorf("failed to parse login response: %w", err)
	}
	if login.Access == "" {
		return "", domain.ErrAuthFailed
	}

	return login.Access, nil
}

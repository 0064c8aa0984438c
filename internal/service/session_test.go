package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trolley/internal/domain"
	"trolley/internal/log"
)

type fakeAccountRepo struct {
	profile *domain.Profile
	err     error
}

func (f *fakeAccountRepo) GetProfile(_ context.Context) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

func (f *fakeAccountRepo) UpdateProfile(_ context.Context, name, region string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	p.Name = name
	if region != "" {
		p.Region = region
	}
	return &p, nil
}

func TestLoadProfileSyncsSessionRegion(t *testing.T) {
	repo := &fakeAccountRepo{profile: &domain.Profile{Email: "sam@example.test", Region: "copenhagen"}}
	session := &domain.Session{Token: "tok"}
	svc := NewSessionService(repo, session, log.NullLogger())

	require.Nil(t, svc.Profile())

	profile, err := svc.LoadProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "copenhagen", session.Region)
	assert.Equal(t, profile, svc.Profile())
}

func TestLoadProfileFailure(t *testing.T) {
	repo := &fakeAccountRepo{err: errors.New("boom")}
	svc := NewSessionService(repo, &domain.Session{}, log.NullLogger())

	_, err := svc.LoadProfile(context.Background())
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Nil(t, svc.Profile())
}

func TestUpdateProfileSyncsSessionRegion(t *testing.T) {
	repo := &fakeAccountRepo{profile: &domain.Profile{Email: "sam@example.test", Region: "copenhagen"}}
	session := &domain.Session{Region: "copenhagen"}
	svc := NewSessionService(repo, session, log.NullLogger())

	profile, err := svc.UpdateProfile(context.Background(), "Sam Larsen", "aarhus")
	require.NoError(t, err)
	assert.Equal(t, "Sam Larsen", profile.Name)
	assert.Equal(t, "aarhus", session.Region)
}

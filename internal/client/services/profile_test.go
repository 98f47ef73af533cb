package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile_DefaultWhenEmpty(t *testing.T) {
	e := newEnv(t, "u1")
	svc := NewProfileService(e.cols, e.clock.Now)

	p := svc.GetProfile(context.Background())

	assert.Equal(t, models.DefaultProfile(), p)
	assert.Zero(t, e.rs.Sets)
}

func TestSaveProfile_ValidatesBeforeWriting(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "u1")
	svc := NewProfileService(e.cols, e.clock.Now)

	p := models.DefaultProfile()
	p.Name = "A"
	_, err := svc.SaveProfile(ctx, p)

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Name must be at least 2 characters.", verr.Message)
	assert.Zero(t, e.rs.Sets)
}

func TestSaveProfile_PersistsCleanCopy(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "u1")
	svc := NewProfileService(e.cols, e.clock.Now)

	p := models.DefaultProfile()
	p.Name = "  Ana  "
	p.SleepAverage = "7.25"
	saved, err := svc.SaveProfile(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, "Ana", saved.Name)
	assert.Equal(t, "7.3", saved.SleepAverage)
	require.NotNil(t, saved.UpdatedAt)
	assert.Equal(t, saved, svc.GetProfile(ctx))

	_, ok := e.rs.Doc("users/u1/appData/profile")
	assert.True(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, "")
	svc := NewProfileService(e.cols, e.clock.Now)

	saved, err := svc.UpdateProfile(ctx, ProfileUpdate{Name: ptr("Marco"), AITone: ptr("Direct"), AllowLongTermAnalysis: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Marco", saved.Name)
	assert.Equal(t, "Direct", saved.AITone)
	assert.False(t, saved.AllowLongTermAnalysis)
	assert.Equal(t, "Mixed", saved.EnergyPattern)

	_, err = svc.UpdateProfile(ctx, ProfileUpdate{AITone: ptr("Sarcastic")})
	require.Error(t, err)
	assert.Equal(t, "Direct", svc.GetProfile(ctx).AITone)
}

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/schema"
	"github.com/devcatalyst/intake-service/internal/validator"
)

func newDraft(t *testing.T) *Draft {
	t.Helper()
	form, err := schema.Default()
	require.NoError(t, err)
	return NewDraft(form, validator.New())
}

func TestDraft_HiddenAnswersRetainedButNotSubmitted(t *testing.T) {
	d := newDraft(t)

	d.Set("selected_track", "Social Media Team")
	d.Set("social_analysis", "Reels beat carousels for reach.")
	d.Set("selected_track", "Technical Team")

	_, kept := d.Get("social_analysis")
	assert.True(t, kept)
	assert.NotContains(t, d.Payload(), "social_analysis")

	d.Set("selected_track", "Social Media Team")
	assert.Equal(t, "Reels beat carousels for reach.", d.Payload()["social_analysis"])
}

func TestDraft_VisibleFollowsTrack(t *testing.T) {
	d := newDraft(t)
	before := len(d.Visible())

	d.Set("selected_track", "Outreach Team")
	after := d.Visible()
	assert.Len(t, after, before+1)

	ids := make([]string, 0, len(after))
	for _, s := range after {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "track_outreach")
	assert.NotContains(t, ids, "track_technical")
}

func TestDraft_ValidateAndOptimisticClear(t *testing.T) {
	d := newDraft(t)

	assert.False(t, d.Validate())
	errs := d.Errors()
	assert.Equal(t, validator.MsgRequired, errs["full_name"])

	d.Set("full_name", "Asha Rao")
	assert.NotContains(t, d.Errors(), "full_name")
	assert.Contains(t, d.Errors(), "roll_number")

	d.Set("roll_number", "1608-25-73-019")
	assert.NotContains(t, d.Errors(), "roll_number", "cleared until the next validation")
	d.Validate()
	assert.Contains(t, d.Errors(), "roll_number")
}

func TestDraft_SwitchingTrackDropsHiddenErrors(t *testing.T) {
	d := newDraft(t)
	hidden := []string{"learning_approach", "tech_struggle", "tech_blocker"}

	d.Set("selected_track", "Technical Team")
	d.Validate()
	for _, id := range hidden {
		require.Contains(t, d.Errors(), id)
	}

	d.Set("selected_track", "Outreach Team")
	errs := d.Errors()
	for _, id := range hidden {
		assert.NotContains(t, errs, id)
	}
	assert.Contains(t, errs, "full_name", "visible errors are kept")
}

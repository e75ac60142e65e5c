package keyboards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/diabetes-care/internal/analytics"
	"github.com/vladimiradmaev/diabetes-care/internal/domain"
)

func TestRemindersMenu(t *testing.T) {
	kb := RemindersMenu([]domain.ReminderRule{
		{ID: "1", Label: "Morning Glucose Check", TimeOfDay: "08:00", Enabled: true},
		{ID: "2", Label: "Post-Lunch Bolus", TimeOfDay: "14:00"},
	})

	require.Len(t, kb.InlineKeyboard, 3)
	first := kb.InlineKeyboard[0]
	assert.Equal(t, "🟢 Morning Glucose Check", first[0].Text)
	assert.Equal(t, "toggle:1", *first[0].CallbackData)
	assert.Equal(t, "time:1", *first[1].CallbackData)
	assert.Equal(t, "⚪ Post-Lunch Bolus", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, MainMenuData, *kb.InlineKeyboard[2][0].CallbackData)
}

func TestSettingsMenu(t *testing.T) {
	kb := SettingsMenu(analytics.UnitMmol, domain.PermissionDefault)
	assert.Equal(t, "unit:mgdl", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, NotifyOnData, *kb.InlineKeyboard[1][0].CallbackData)

	kb = SettingsMenu(analytics.UnitMgDL, domain.PermissionGranted)
	assert.Equal(t, "unit:mmol", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, NotifyOffData, *kb.InlineKeyboard[1][0].CallbackData)
}

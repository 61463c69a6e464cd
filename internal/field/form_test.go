package field

import (
	"errors"
	"testing"

	"maskfield/internal/config"
	"maskfield/internal/mask"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewForm_DuplicateNames(t *testing.T) {
	_, err := NewForm("x", "X",
		New("a", mask.Compile("99")),
		New("a", mask.Compile("99")),
	)
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	form, err := FromConfig(cfg, "contact")
	require.NoError(t, err)
	assert.Equal(t, "Contact details", form.Title())
	assert.Equal(t, 2, form.Len())

	phone, err := form.Field("phone")
	require.NoError(t, err)
	assert.True(t, phone.Required())
	assert.Equal(t, "(999) 999-9999", phone.Template().Pattern())

	_, err = form.Field("fax")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = FromConfig(cfg, "nope")
	assert.ErrorIs(t, err, config.ErrUnknownForm)
}

func TestForm_FocusCycling(t *testing.T) {
	form, err := FromConfig(config.DefaultConfig(), "payment")
	require.NoError(t, err)

	assert.Equal(t, "card", form.Focused().Name())
	assert.True(t, form.Focused().Focused())

	assert.Equal(t, "expiry", form.FocusNext().Name())
	assert.Equal(t, "cvc", form.FocusNext().Name())
	assert.Equal(t, "card", form.FocusNext().Name())
	assert.Equal(t, "cvc", form.FocusPrev().Name())

	focused := 0
	for _, f := range form.Fields() {
		if f.Focused() {
			focused++
		}
	}
	assert.Equal(t, 1, focused, "exactly one field holds focus")
}

func TestForm_EmptyFocus(t *testing.T) {
	form, err := NewForm("empty", "Empty")
	require.NoError(t, err)
	assert.Nil(t, form.Focused())
	assert.Nil(t, form.FocusNext())
	assert.NoError(t, form.Validate())
}

func TestForm_ValuesAndValidate(t *testing.T) {
	form, err := FromConfig(config.DefaultConfig(), "payment")
	require.NoError(t, err)

	var changes []string
	form.OnChange(func(c Change) { changes = append(changes, c.Field) })

	card, _ := form.Field("card")
	expiry, _ := form.Field("expiry")
	card.Input("4111111111111111")
	expiry.Input("12")

	err = form.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIncomplete))
	assert.Contains(t, err.Error(), "Expiry")
	assert.Contains(t, err.Error(), "CVC")
	assert.NotContains(t, err.Error(), "Card number")

	expiry.Input("1229")
	cvc, _ := form.Field("cvc")
	cvc.Input("123")
	require.NoError(t, form.Validate())

	wantClean := map[string]string{"card": "4111111111111111", "expiry": "1229", "cvc": "123"}
	if diff := cmp.Diff(wantClean, form.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	wantMasked := map[string]string{"card": "4111 1111 1111 1111", "expiry": "12/29", "cvc": "123"}
	if diff := cmp.Diff(wantMasked, form.Masked()); diff != "" {
		t.Errorf("Masked() mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"card", "expiry", "expiry", "cvc"}, changes)

	form.Reset()
	assert.Equal(t, map[string]string{"card": "", "expiry": "", "cvc": ""}, form.Values())
	assert.Equal(t, 0, form.FocusIndex())
}

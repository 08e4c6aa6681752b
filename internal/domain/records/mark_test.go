package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkValue(t *testing.T) {
	v, err := ParseMarkValue("4")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int16(4), *v)

	v, err = ParseMarkValue(" 5 ")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int16(5), *v)

	// Все обозначения невыставленной оценки дают nil.
	for _, raw := range []string{"", "н/а", "Н/А", "na", "NA", "нет", "-"} {
		v, err = ParseMarkValue(raw)
		require.NoError(t, err, "raw=%q", raw)
		assert.Nil(t, v, "raw=%q", raw)
	}

	_, err = ParseMarkValue("1")
	assert.ErrorIs(t, err, ErrMarkOutOfRange)

	_, err = ParseMarkValue("6")
	assert.ErrorIs(t, err, ErrMarkOutOfRange)

	_, err = ParseMarkValue("отлично")
	assert.Error(t, err)
}

func TestMarkValueEqual(t *testing.T) {
	three := int16(3)
	threeAgain := int16(3)
	four := int16(4)

	assert.True(t, MarkValueEqual(nil, nil))
	assert.True(t, MarkValueEqual(&three, &threeAgain))
	assert.False(t, MarkValueEqual(&three, &four))
	assert.False(t, MarkValueEqual(&three, nil))
	assert.False(t, MarkValueEqual(nil, &four))
}

func TestDisplayMarkValue(t *testing.T) {
	assert.Equal(t, "н/а", DisplayMarkValue(nil))

	five := int16(5)
	assert.Equal(t, "5", DisplayMarkValue(&five))
}

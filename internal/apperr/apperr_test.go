package apperr

import (
	"errors"
	"os"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfiguration_WrapsCause(t *testing.T) {
	err := Configuration(os.ErrNotExist, "dataset: open data.csv")
	require.Error(t, err)
	assert.True(t, IsConfiguration(err))
	assert.False(t, IsInvalidArgument(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "dataset: open data.csv")
}

func TestConfiguration_NilCause(t *testing.T) {
	err := Configuration(nil, "mapping: no majors")
	assert.True(t, IsConfiguration(err))
	assert.Contains(t, err.Error(), "mapping: no majors")
}

func TestInvalidArgument(t *testing.T) {
	err := InvalidArgument("unknown sort key %q", "bogus")
	assert.True(t, IsInvalidArgument(err))
	assert.Equal(t, KindInvalidArgument, KindOf(err))
	assert.Contains(t, err.Error(), `"bogus"`)
}

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := eris.Wrap(InvalidArgument("unknown major %q", "Alchemy"), "compare")
	assert.True(t, IsInvalidArgument(err))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

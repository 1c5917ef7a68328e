package cli

import (
	"testing"

	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGranularityFlag(t *testing.T) {
	var f granularityFlag
	assert.Equal(t, timeline.Monthly, f.Or(timeline.Monthly), "unset flag yields the default")

	require.NoError(t, f.Set("q"))
	assert.Equal(t, timeline.Quarterly, f.Or(timeline.Monthly))
	assert.Equal(t, "quarterly", f.String())
	assert.Equal(t, "granularity", f.Type())

	assert.Error(t, f.Set("daily"))
	assert.Equal(t, timeline.Quarterly, f.Or(timeline.Weekly), "failed Set keeps the previous value")
}

func TestDateFlag(t *testing.T) {
	var f dateFlag
	assert.Nil(t, f.Ptr())
	assert.Empty(t, f.String())

	require.NoError(t, f.Set("2025-06-12"))
	require.NotNil(t, f.Ptr())
	assert.Equal(t, testutil.MustDate("2025-06-12"), *f.Ptr())
	assert.Equal(t, "2025-06-12", f.String())

	assert.Error(t, f.Set("12/06/2025"))
}

func TestEnumFlag(t *testing.T) {
	f := kindFlag(domain.KindTask)
	assert.Equal(t, "task", f.String())
	assert.Equal(t, "kind", f.Type())

	require.NoError(t, f.Set("bug"))
	assert.Equal(t, "bug", f.String())

	err := f.Set("epic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid kind "epic"`)
	assert.Equal(t, "bug", f.String())

	assert.Empty(t, statusFlag().String())
	assert.Equal(t, "medium", priorityFlag(domain.PriorityMedium).String())
}

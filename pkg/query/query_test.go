package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/mountscope/pkg/mountinfo"
)

const sampleTable = `26 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw
40 26 0:25 / /proc rw,nosuid - proc proc rw
52 26 8:2 / /foo rw - ext4 /dev/sda2 rw
60 52 0:30 / /foobar rw - tmpfs tmpfs rw
81 26 7:4 / /snap/core/8039 ro shared:39 - squashfs /dev/loop4 ro
`

func parseTable(t *testing.T) []*mountinfo.Record {
	t.Helper()
	records, err := mountinfo.ParseTable(strings.NewReader(sampleTable))
	require.NoError(t, err)
	return records
}

func mountPoints(records []*mountinfo.Record) []string {
	points := make([]string, len(records))
	for i, r := range records {
		points[i] = r.MountPoint
	}
	return points
}

func TestParseExprs_ExactAttribute(t *testing.T) {
	records := parseTable(t)

	// Dotted and undotted forms are equivalent
	for _, expr := range []string{".fs_type=ext4", "fs_type=ext4"} {
		q, err := ParseExprs([]string{expr})
		require.NoError(t, err, "expr: %s", expr)
		assert.Equal(t, []string{"/", "/foo"}, mountPoints(q.Filter(records)))
	}
}

func TestParseExprs_TypedValues(t *testing.T) {
	records := parseTable(t)

	t.Run("integer attribute", func(t *testing.T) {
		q, err := ParseExprs([]string{".parent_id=26"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/proc", "/foo", "/snap/core/8039"}, mountPoints(q.Filter(records)))
	})

	t.Run("device attribute", func(t *testing.T) {
		q, err := ParseExprs([]string{".dev=8:2"})
		require.NoError(t, err)
		assert.Equal(t, []string{"/foo"}, mountPoints(q.Filter(records)))
	})

	t.Run("bad integer value", func(t *testing.T) {
		_, err := ParseExprs([]string{".mount_id=abc"})
		assert.Error(t, err)
	})
}

func TestParseExprs_BarePath(t *testing.T) {
	records := parseTable(t)

	q, err := ParseExprs([]string{"/foo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/foo"}, mountPoints(q.Filter(records)),
		"bare path matches mount_point exactly, not as prefix")
}

func TestParseExprs_PrefixPath(t *testing.T) {
	records := parseTable(t)

	q, err := ParseExprs([]string{"/foo..."})
	require.NoError(t, err)
	assert.Equal(t, []string{"/foo", "/foobar"}, mountPoints(q.Filter(records)),
		"prefix match includes the path itself and longer names")
}

func TestParseExprs_AndSemantics(t *testing.T) {
	records := parseTable(t)

	q, err := ParseExprs([]string{".fs_type=ext4", ".parent_id=26"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/foo"}, mountPoints(q.Filter(records)),
		"two filters narrow to the intersection")
}

func TestParseExprs_EmptyMatchesEverything(t *testing.T) {
	records := parseTable(t)

	q, err := ParseExprs(nil)
	require.NoError(t, err)
	assert.Len(t, q.Filter(records), len(records))
}

func TestParseExprs_UnknownAttribute(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"filter form", ".bogus=1"},
		{"undotted filter form", "bogus=1"},
		{"selector form", ".bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExprs([]string{tt.expr})

			var unknownErr *UnknownAttributeError
			require.ErrorAs(t, err, &unknownErr)
			assert.Equal(t, "bogus", unknownErr.Name)
			assert.Equal(t, mountinfo.AttributeNames(), unknownErr.Known)
			assert.Contains(t, err.Error(), "mount_point", "message lists the known attributes")
		})
	}
}

func TestSelectors(t *testing.T) {
	records := parseTable(t)

	t.Run("single selector", func(t *testing.T) {
		q, err := ParseExprs([]string{"/", ".dev"})
		require.NoError(t, err)
		matched := q.Filter(records)
		require.Len(t, matched, 1)
		assert.True(t, q.HasSelectors())
		assert.Equal(t, "8:1", q.Select(matched[0]))
	})

	t.Run("selectors print in given order", func(t *testing.T) {
		q, err := ParseExprs([]string{"/proc", ".fs_type", ".mount_id", ".mount_source"})
		require.NoError(t, err)
		matched := q.Filter(records)
		require.Len(t, matched, 1)
		assert.Equal(t, "proc 40 proc", q.Select(matched[0]))
	})

	t.Run("no selectors renders wire layout", func(t *testing.T) {
		q, err := ParseExprs([]string{"/proc"})
		require.NoError(t, err)
		matched := q.Filter(records)
		require.Len(t, matched, 1)
		assert.False(t, q.HasSelectors())
		assert.Equal(t, "40 26 0:25 / /proc rw,nosuid - proc proc rw", q.Select(matched[0]))
	})
}

func TestRequireOne(t *testing.T) {
	records := parseTable(t)

	t.Run("exactly one", func(t *testing.T) {
		rec, err := RequireOne(records[:1])
		require.NoError(t, err)
		assert.Equal(t, "/", rec.MountPoint)
	})

	t.Run("zero", func(t *testing.T) {
		_, err := RequireOne(nil)
		var cardErr *CardinalityError
		require.ErrorAs(t, err, &cardErr)
		assert.Equal(t, 0, cardErr.Count)
	})

	t.Run("more than one", func(t *testing.T) {
		_, err := RequireOne(records)
		var cardErr *CardinalityError
		require.ErrorAs(t, err, &cardErr)
		assert.Equal(t, len(records), cardErr.Count)
	})
}

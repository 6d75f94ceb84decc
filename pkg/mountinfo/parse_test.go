package mountinfo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord_Fields(t *testing.T) {
	line := "26 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw,errors=remount-ro"

	rec, err := ParseRecord(line)
	require.NoError(t, err)

	assert.Equal(t, 26, rec.MountID)
	assert.Equal(t, 1, rec.ParentID)
	assert.Equal(t, NewDevice(8, 1), rec.Dev)
	assert.Equal(t, "/", rec.RootDir)
	assert.Equal(t, "/", rec.MountPoint)
	assert.Equal(t, "rw,relatime", rec.MountOpts)
	assert.Equal(t, []string{"shared:1"}, rec.OptFields)
	assert.Equal(t, "ext4", rec.FsType)
	assert.Equal(t, "/dev/sda1", rec.MountSource)
	assert.Equal(t, "rw,errors=remount-ro", rec.SuperOpts)
}

func TestParseRecord_OptionalFields(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		rec, err := ParseRecord("15 20 0:14 / /sys rw,nosuid - sysfs sysfs rw")
		require.NoError(t, err)
		assert.Empty(t, rec.OptFields)
	})

	t.Run("multiple", func(t *testing.T) {
		rec, err := ParseRecord("88 26 0:42 / /mnt rw shared:5 master:2 propagate_from:1 - tmpfs tmpfs rw")
		require.NoError(t, err)
		assert.Equal(t, []string{"shared:5", "master:2", "propagate_from:1"}, rec.OptFields)
	})

	t.Run("bare tag", func(t *testing.T) {
		rec, err := ParseRecord("88 26 0:42 / /mnt rw unbindable - tmpfs tmpfs rw")
		require.NoError(t, err)
		assert.Equal(t, []string{"unbindable"}, rec.OptFields)
	})
}

func TestParseRecord_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"missing everything after IDs", "26 1"},
		{"mount ID not integer", "abc 1 8:1 / / rw - ext4 /dev/sda1 rw"},
		{"parent ID not integer", "26 abc 8:1 / / rw - ext4 /dev/sda1 rw"},
		{"device token without colon", "26 1 81 / / rw - ext4 /dev/sda1 rw"},
		{"device token with bad major", "26 1 a:1 / / rw - ext4 /dev/sda1 rw"},
		{"no optional-fields terminator", "26 1 8:1 / / rw shared:1 ext4 /dev/sda1"},
		{"missing sb_opts", "26 1 8:1 / / rw - ext4 /dev/sda1"},
		{"trailing tokens", "26 1 8:1 / / rw - ext4 /dev/sda1 rw extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord(tt.line)
			assert.Nil(t, rec)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

// TestParseRecord_RoundTrip checks the formatter invariant: parse then format
// reproduces the line exactly, modulo whitespace runs collapsing.
func TestParseRecord_RoundTrip(t *testing.T) {
	lines := []string{
		"26 1 8:1 / / rw,relatime shared:1 - ext4 /dev/sda1 rw,errors=remount-ro",
		"15 20 0:14 / /sys rw,nosuid,nodev,noexec,relatime - sysfs sysfs rw",
		"88 26 0:42 / /mnt rw shared:5 master:2 - tmpfs tmpfs rw,size=1024k",
		"81 26 7:4 / /snap/core/8039 ro,nodev,relatime shared:39 - squashfs /dev/loop4 ro",
		"1731 26 0:57 / /var/lib/docker/overlay2 rw - overlay overlay rw,lowerdir=/a:/b,upperdir=/c",
	}

	for _, line := range lines {
		rec, err := ParseRecord(line)
		require.NoError(t, err, "line: %s", line)
		assert.Equal(t, line, rec.String())
	}
}

func TestParseRecord_WhitespaceNormalization(t *testing.T) {
	rec, err := ParseRecord("26  1   8:1 /  / rw shared:1  - ext4 /dev/sda1 rw")
	require.NoError(t, err)
	assert.Equal(t, "26 1 8:1 / / rw shared:1 - ext4 /dev/sda1 rw", rec.String())
}

func TestParseTable(t *testing.T) {
	input := `26 1 8:1 / / rw shared:1 - ext4 /dev/sda1 rw
40 26 0:25 / /proc rw - proc proc rw

81 26 7:4 / /snap/core/8039 ro - squashfs /dev/loop4 ro
`

	records, err := ParseTable(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3, "blank lines are skipped")
	assert.Equal(t, "/", records[0].MountPoint)
	assert.Equal(t, "/proc", records[1].MountPoint)
	assert.Equal(t, "/snap/core/8039", records[2].MountPoint)
}

func TestParseTable_FailFast(t *testing.T) {
	input := `26 1 8:1 / / rw shared:1 - ext4 /dev/sda1 rw
this is not a mountinfo line
81 26 7:4 / /snap/core/8039 ro - squashfs /dev/loop4 ro
`

	records, err := ParseTable(strings.NewReader(input))
	assert.Nil(t, records, "no partial output on malformed input")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 2, parseErr.LineNumber)
}

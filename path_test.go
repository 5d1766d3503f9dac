package atfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"", true},
		{"home", true},
		{"home.tim", true},
		{"_private.a1_b2", true},
		{"a.b.c.d", true},
		{"home..tim", false},
		{".home", false},
		{"home.", false},
		{".", false},
		{"4chan", false},
		{"home.4chan", false},
		{"Home", false},
		{"home/tim", false},
		{"home tim", false},
		{"hä", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Validate(tt.path); got != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPathHelpers(t *testing.T) {
	require.Equal(t, "home.tim", Join("home", "tim"))
	require.Equal(t, "home", Join("", "home"))
	require.Equal(t, "a.b.c", Join("a", "b", "c"))
	require.Equal(t, "", Join(""))

	require.Equal(t, "home", Parent("home.tim"))
	require.Equal(t, "", Parent("home"))
	require.Equal(t, "a.b", Parent("a.b.c"))

	require.Equal(t, "tim", Last("home.tim"))
	require.Equal(t, "home", Last("home"))
	require.Equal(t, "", Last(""))

	require.Equal(t, "home", First("home.tim.x"))
	require.Equal(t, "tim.x", Rest("home.tim.x"))
	require.Equal(t, "", Rest("home"))
}

func TestVolume_Traverse(t *testing.T) {
	vol := testingVolume(t, 512, 64)
	root, err := vol.Root()
	require.NoError(t, err)

	require.NoError(t, vol.Create("home", TypeDir, 1))
	require.NoError(t, vol.Create("home.tim", TypeDir, 1))
	require.NoError(t, vol.Create("readme", TypeFile, 1))

	home, err := vol.Lookup("home")
	require.NoError(t, err)
	tim, err := vol.Lookup("home.tim")
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    Location
		wantErr error
	}{
		{
			name: "root",
			path: "",
			want: Location{Parent: root},
		},
		{
			name: "entry in root",
			path: "home",
			want: Location{Parent: root, Name: "home"},
		},
		{
			name: "last component does not need to exist",
			path: "home.tim.notes",
			want: Location{Parent: tim.Extent, Name: "notes"},
		},
		{
			name: "nested",
			path: "home.tim",
			want: Location{Parent: home.Extent, Name: "tim"},
		},
		{
			name:    "missing directory",
			path:    "tmp.x",
			wantErr: ErrNotFound,
		},
		{
			name:    "file in the middle",
			path:    "readme.x",
			wantErr: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := vol.Traverse(tt.path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

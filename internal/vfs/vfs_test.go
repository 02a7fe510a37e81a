package vfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
)

func TestResolve(t *testing.T) {
	fs := Portfolio()

	tests := []struct {
		name    string
		path    []string
		wantDir bool
		wantErr bool
	}{
		{"root", nil, true, false},
		{"home path", HomePath, true, false},
		{"file", append(append([]string{}, HomePath...), "aboutme.txt"), false, false},
		{"missing segment", []string{"home", "nobody"}, false, true},
		{"through a file", append(append([]string{}, HomePath...), "aboutme.txt", "x"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := fs.Resolve(tt.path)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDir, n.IsDir())
		})
	}
}

func TestListKeepsDefinitionOrder(t *testing.T) {
	names, err := Portfolio().List(HomePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"aboutme.txt", "skills.txt", "projects", "photos", "contact.txt", "resume.pdf"}, names)
}

func TestListOnFile(t *testing.T) {
	_, err := Portfolio().List([]string{"home", content.Owner, "notes.txt"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirDropsDuplicateNames(t *testing.T) {
	d := Dir("d", File("a", "1"), File("a", "2"), File("b", ""))
	assert.Equal(t, []string{"a", "b"}, d.Names())
	a, ok := d.Child("a")
	require.True(t, ok)
	assert.Equal(t, "1", a.Content)
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/home/cosmic/portfolio", Join(HomePath))
	assert.Equal(t, "/", Join(nil))
}

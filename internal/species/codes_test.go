package species

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	none := map[string]bool{}

	tests := []struct {
		name string
		want string
	}{
		{"American Woodcock", "amewoo"},
		{"Canada Goose", "cangoo"},
		{"Great Blue Heron", "greher"},
		{"Killdeer", "killde"},
		{"Ruff", "ruffru"},
		{"Sora", "soraso"},
		{"Rock Pigeon (Feral Pigeon)", "rocpig"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateCode(tt.name, none))
		})
	}
}

func TestGenerateCodeCollisions(t *testing.T) {
	t.Parallel()

	t.Run("two plus four fallback", func(t *testing.T) {
		existing := map[string]bool{"amewoo": true}
		assert.Equal(t, "amwood", GenerateCode("American Woodcock", existing))
	})

	t.Run("middle word fallback", func(t *testing.T) {
		existing := map[string]bool{"greher": true, "grhero": true}
		assert.Equal(t, "greblu", GenerateCode("Great Blue Heron", existing))
	})

	t.Run("four plus two fallback", func(t *testing.T) {
		existing := map[string]bool{"amewoo": true, "amwood": true}
		assert.Equal(t, "amerwo", GenerateCode("American Woodcock", existing))
	})

	t.Run("numeric suffix as last resort", func(t *testing.T) {
		existing := map[string]bool{
			"amewoo": true, "amwood": true, "amerwo": true,
		}
		assert.Equal(t, "amewo2", GenerateCode("American Woodcock", existing))

		existing["amewo2"] = true
		assert.Equal(t, "amewo3", GenerateCode("American Woodcock", existing))
	})
}

func TestGenerateCodeUniqueAcrossBatch(t *testing.T) {
	t.Parallel()

	names := []string{
		"American Woodcock",
		"American Wigeon",
		"American Woodstar",
		"Wood Duck",
		"Wood Thrush",
	}
	existing := map[string]bool{}
	seen := map[string]bool{}
	for _, name := range names {
		code := GenerateCode(name, existing)
		assert.Len(t, code, CodeLength)
		assert.False(t, seen[code], "duplicate code %s for %s", code, name)
		seen[code] = true
		existing[code] = true
	}
}

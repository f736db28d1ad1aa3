package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitials(t *testing.T) {
	assert.Equal(t, "JM", Initials("Jane Mwangi"))
	assert.Equal(t, "JO", Initials("john otieno kamau"))
	assert.Equal(t, "WA", Initials("wanjiku"))
	assert.Equal(t, "A", Initials("a"))
	assert.Equal(t, "", Initials(""))
}

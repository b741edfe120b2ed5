package media

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBlobKey(t *testing.T) {
	id := uuid.MustParse("0190f3a2-7b4c-7d11-8e22-0123456789ab")

	assert.Equal(t, "ab/89/0190f3a27b4c7d118e220123456789ab", BlobKey(id))
	assert.Equal(t, BlobKey(id), BlobKey(id))
}

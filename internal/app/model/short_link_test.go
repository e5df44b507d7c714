package model

import (
	"sync"
	"testing"

	"github.com/sifan077/slugurl/internal/app/slug"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestShortLink_SlugColumnFitsMaxLength(t *testing.T) {
	s, err := schema.Parse(&ShortLink{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Slug")
	require.NotNil(t, field)
	assert.Equal(t, "slug", field.DBName)
	assert.Equal(t, slug.MaxLength, field.Size)
	assert.Equal(t, "short_links", s.Table)
}

package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedFixtures(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Challenges)
	assert.NotEmpty(t, c.Endpoints)
	assert.NotEmpty(t, c.Database.Tables)
	assert.NotEmpty(t, c.Database.Queries)
	assert.NotEmpty(t, c.Git.Commits)
	assert.NotEmpty(t, c.Git.PullRequests)
	assert.NotEmpty(t, c.Build.Stages)
	assert.NotEmpty(t, c.Build.Environments)
	assert.NotEmpty(t, c.IDE.Themes)
	assert.NotEmpty(t, c.Projects)

	for _, ch := range c.Challenges {
		assert.NotEmpty(t, ch.Starter, ch.ID)
		assert.NotEmpty(t, ch.Solution, ch.ID)
		assert.NotEmpty(t, ch.Tests, ch.ID)
	}
}

func TestValidateRejectsDuplicates(t *testing.T) {
	c := &Catalog{Challenges: []Challenge{{ID: "two-sum"}, {ID: "Two-Sum"}}}

	err := c.validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateID))
}

func TestValidateRejectsMissingID(t *testing.T) {
	c := &Catalog{Projects: []Project{{Name: "nameless"}}}

	err := c.validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingID))
}

package testutils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kweyjibo/input-range/internal/utils"
)

func AssertFileExists(t *testing.T, path string) {
	_, err := os.Stat(path)
	assert.NoError(t, err, "file should exist")
}

func AssertFileDoesNotExist(t *testing.T, path string) {
	stat, err := os.Stat(path)
	assert.Error(t, err, "file should not exist")
	assert.Nil(t, stat, "file should not exist")
}

func AssertFixture(t *testing.T, target, fixture string, regenerate bool) {
	if regenerate {
		UpdateFixture(t, target, fixture)
		return
	}
	AssertContentsSameAsFixture(t, target, fixture)
}

func AssertContentsSameAsFixture(t *testing.T, targetFile, fixtureFile string) {
	// nolint:gosec
	targetContent, err := os.ReadFile(targetFile)
	assert.NoError(t, err, "should be able to read the target file")
	// nolint:gosec
	fixtureContent, err := os.ReadFile(fixtureFile)
	assert.NoError(t, err, "should be able to read the fixture file")
	assert.Equal(t, string(fixtureContent), string(targetContent),
		"target content should be the same as in the fixture %s", fixtureFile)
}

func UpdateFixture(t *testing.T, targetFile, fixtureFile string) {
	// nolint:gosec
	targetContent, err := os.ReadFile(targetFile)
	assert.NoError(t, err, "should be able to read the target file")
	assert.NoError(t, utils.WriteAtomic(fixtureFile, targetContent), "cant write to file")
}

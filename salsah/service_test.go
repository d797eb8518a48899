package salsah

import (
	"errors"
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	loadTimeout  = 5 * time.Second
	loadInterval = 10 * time.Millisecond
)

type countingPurger struct {
	purges int
}

func (p *countingPurger) Purge() {
	p.purges++
}

func createTestService(t *testing.T) *ServiceImpl {
	tr, _ := newTestTransformer(t)
	svc := NewService(tr, nil, []ID{"6", "7"}, filepath.Join(t.TempDir(), "cache.db"))
	require.Eventually(t, svc.IsDataLoaded, loadTimeout, loadInterval)
	return svc
}

func readPipe(t *testing.T, pv *io.PipeReader) string {
	defer pv.Close()
	blob, err := ioutil.ReadAll(pv)
	require.NoError(t, err)
	return string(blob)
}

func TestIsDataLoaded(t *testing.T) {
	svc := &ServiceImpl{}

	svc.setDataLoaded(true)
	assert.True(t, svc.IsDataLoaded())
	svc.setDataLoaded(false)
	assert.False(t, svc.IsDataLoaded())
}

func TestServiceImpl_GetCount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := createTestService(t)
		count, err := svc.GetCount()
		assert.NoError(t, err)
		assert.Equal(t, 2, count)
	})
	t.Run("Error - not loaded", func(t *testing.T) {
		svc := &ServiceImpl{}
		count, err := svc.GetCount()
		assert.Error(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestServiceImpl_GetOntology(t *testing.T) {
	svc := createTestService(t)

	t.Run("Success", func(t *testing.T) {
		doc, found, err := svc.GetOntology("webern")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "0806", doc.Project.Shortcode)
		assert.Equal(t, *transformWebern(t), doc)
	})
	t.Run("Not found", func(t *testing.T) {
		_, found, err := svc.GetOntology("nobody")
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestServiceImpl_GetOntologyNames(t *testing.T) {
	svc := createTestService(t)

	pv, err := svc.GetOntologyNames()
	require.NoError(t, err)
	assert.Equal(t, "{\"shortname\":\"other\"}\n{\"shortname\":\"webern\"}\n", readPipe(t, pv))
}

func TestServiceImpl_GetAllOntologies(t *testing.T) {
	svc := createTestService(t)

	pv, err := svc.GetAllOntologies()
	require.NoError(t, err)
	lines := readPipe(t, pv)
	assert.Contains(t, lines, `"shortname":"other"`)
	assert.Contains(t, lines, `"shortname":"webern"`)
}

func TestServiceImpl_Reload(t *testing.T) {
	purger := &countingPurger{}
	repo := minimalRepository()
	svc := NewService(NewTransformer(repo, Shortcodes{}), purger, []ID{"1"}, filepath.Join(t.TempDir(), "cache.db"))
	require.Eventually(t, svc.IsDataLoaded, loadTimeout, loadInterval)

	repo.projects = append(repo.projects, Project{ID: "3", Shortname: "late"})
	svc.projectIDs = []ID{"1", "3"}
	require.NoError(t, svc.Reload())

	count, err := svc.GetCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, purger.purges)

	_, found, err := svc.GetOntology("late")
	assert.NoError(t, err)
	assert.True(t, found)
}

func TestServiceImpl_ReloadFailureLeavesDataUnloaded(t *testing.T) {
	repo := minimalRepository()
	svc := NewService(NewTransformer(repo, Shortcodes{}), nil, []ID{"1"}, filepath.Join(t.TempDir(), "cache.db"))
	require.Eventually(t, svc.IsDataLoaded, loadTimeout, loadInterval)

	repo.err = errors.New("SALSAH unavailable")
	assert.Error(t, svc.Reload())
	assert.False(t, svc.IsDataLoaded())
}

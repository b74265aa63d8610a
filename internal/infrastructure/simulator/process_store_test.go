package simulator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/dian-simulador/internal/infrastructure/simulator"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestProcessStore_CicloDeVida(t *testing.T) {
	store := simulator.NewProcessStore(time.Hour, 100, clock)

	store.Start("t1", "c1")
	p, ok := store.Get("t1")
	require.True(t, ok)
	assert.Equal(t, simulator.ProcessProcessing, p.Status)
	assert.Equal(t, "c1", p.CompanyID)
	assert.Empty(t, p.Logs)
	assert.Nil(t, p.FinishedAt)

	progress := store.Progress("t1")
	progress("línea 1")
	store.Append("t1", "línea 2")
	store.Complete("t1", map[string]bool{"success": true})

	p, ok = store.Get("t1")
	require.True(t, ok)
	assert.Equal(t, simulator.ProcessCompleted, p.Status)
	assert.Equal(t, []string{"línea 1", "línea 2"}, p.Logs)
	require.NotNil(t, p.FinishedAt)
	assert.Equal(t, map[string]bool{"success": true}, p.Result)
}

func TestProcessStore_Fail(t *testing.T) {
	store := simulator.NewProcessStore(time.Hour, 100, clock)
	store.Start("t1", "c1")
	store.Fail("t1", errors.New("boom"))

	p, ok := store.Get("t1")
	require.True(t, ok)
	assert.Equal(t, simulator.ProcessError, p.Status)
	assert.Equal(t, "boom", p.Error)
}

func TestProcessStore_Desconocido(t *testing.T) {
	store := simulator.NewProcessStore(time.Hour, 100, clock)
	store.Append("nada", "x")
	store.Complete("nada", nil)
	_, ok := store.Get("nada")
	assert.False(t, ok)
}

func TestProcessStore_GetDevuelveCopia(t *testing.T) {
	store := simulator.NewProcessStore(time.Hour, 100, clock)
	store.Start("t1", "c1")
	store.Append("t1", "a")

	p, _ := store.Get("t1")
	p.Logs[0] = "modificado"

	again, _ := store.Get("t1")
	assert.Equal(t, "a", again.Logs[0])
}

func TestProcessStore_TTL(t *testing.T) {
	mc := &manualClock{t: fixedNow}
	store := simulator.NewProcessStore(time.Hour, 100, mc.now)

	store.Start("terminado", "c1")
	store.Start("en-curso", "c1")
	store.Complete("terminado", nil)

	mc.advance(2 * time.Hour)
	_, ok := store.Get("terminado")
	assert.False(t, ok)
	_, ok = store.Get("en-curso")
	assert.True(t, ok, "los procesos en curso no expiran")

	assert.Equal(t, 1, store.Purge())
	assert.Equal(t, 1, store.Len())
}

func TestProcessStore_MaxEntries(t *testing.T) {
	mc := &manualClock{t: fixedNow}
	store := simulator.NewProcessStore(time.Hour, 2, mc.now)

	store.Start("a", "c1")
	store.Complete("a", nil)
	mc.advance(time.Second)
	store.Start("b", "c1")
	store.Complete("b", nil)
	mc.advance(time.Second)
	store.Start("c", "c1")

	assert.Equal(t, 2, store.Len())
	_, ok := store.Get("a")
	assert.False(t, ok, "se descarta primero el terminado más antiguo")
	_, ok = store.Get("b")
	assert.True(t, ok)
	_, ok = store.Get("c")
	assert.True(t, ok)
}

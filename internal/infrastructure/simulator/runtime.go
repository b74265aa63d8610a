package simulator

import (
	"context"
	"math/rand"
	"time"
)

// RandomSource origen de aleatoriedad de los simuladores. En tests se inyecta una secuencia fija.
type RandomSource interface {
	Float64() float64 // [0,1)
	IntN(n int) int   // [0,n)
}

// Sleeper espera d o hasta que ctx termine.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Clock devuelve la hora actual.
type Clock func() time.Time

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.Intn(n) }

// DefaultRandom usa el generador global de math/rand (seguro para goroutines).
func DefaultRandom() RandomSource { return globalRand{} }

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealSleeper espera con un timer real.
func RealSleeper() Sleeper { return timerSleeper{} }

// Config parámetros comunes de los simuladores. Los campos nil toman valores por defecto.
type Config struct {
	DelayMin     time.Duration
	DelayMax     time.Duration
	ErrorRate    float64
	StepDelayMin time.Duration // solo habilitación
	StepDelayMax time.Duration

	Random  RandomSource
	Sleeper Sleeper
	Now     Clock
}

// DefaultErrorRate probabilidad de rechazo aleatorio si no se configura otra.
const DefaultErrorRate = 0.05

func (c Config) withDefaults() Config {
	if c.Random == nil {
		c.Random = DefaultRandom()
	}
	if c.Sleeper == nil {
		c.Sleeper = RealSleeper()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.DelayMax < c.DelayMin {
		c.DelayMax = c.DelayMin
	}
	if c.StepDelayMax < c.StepDelayMin {
		c.StepDelayMax = c.StepDelayMin
	}
	if c.ErrorRate < 0 {
		c.ErrorRate = 0
	}
	if c.ErrorRate > 1 {
		c.ErrorRate = 1
	}
	return c
}

// uniformDuration devuelve una duración uniforme en [min,max] con resolución de milisegundos.
func uniformDuration(r RandomSource, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	span := int((max - min) / time.Millisecond)
	return min + time.Duration(r.IntN(span+1))*time.Millisecond
}

// rejected lanza la moneda ponderada del rechazo aleatorio.
func rejected(r RandomSource, errorRate float64) bool {
	return r.Float64() < errorRate
}

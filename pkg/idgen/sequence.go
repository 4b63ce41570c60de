package idgen

import "sync/atomic"

// Sequence emite identificadores enteros estrictamente crecientes sin exclusión mutua.
// Sustituye el esquema "leer máximo + 1": dos llamadas concurrentes nunca reciben el mismo valor.
type Sequence struct {
	last atomic.Int64
}

// NewSequence crea una secuencia cuyo primer valor será start+1.
// start suele ser el mayor ID ya persistido (0 si el almacenamiento está vacío).
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)
	return s
}

// Next reserva y devuelve el siguiente ID.
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Current devuelve el último ID emitido (o el valor inicial).
func (s *Sequence) Current() int64 {
	return s.last.Load()
}

// Observe avanza la secuencia si id es mayor que el último emitido.
// Se usa al cargar registros con ID explícito para no reutilizarlos después.
func (s *Sequence) Observe(id int64) {
	for {
		cur := s.last.Load()
		if id <= cur {
			return
		}
		if s.last.CompareAndSwap(cur, id) {
			return
		}
	}
}

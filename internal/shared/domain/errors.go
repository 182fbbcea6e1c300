package domain

import "errors"

// ErrAlmacenNoDisponible señala un fallo de transporte o del almacén remoto.
// Los adapters lo envuelven con %w para que los servicios puedan clasificarlo
// sin conocer el driver concreto.
var ErrAlmacenNoDisponible = errors.New("almacén remoto no disponible")

package domain

import (
	"fmt"
	"sort"
	"time"
)

// Evento es un documento de la colección eventos/{eventId}.
// organizadorNombre es una foto del nombre del creador en el momento del
// alta: no se mantiene sincronizado con ediciones posteriores del perfil.
type Evento struct {
	ID                string    `json:"id"`
	Nombre            string    `json:"nombre"`
	Descripcion       string    `json:"descripcion"`
	Ubicacion         string    `json:"ubicacion"`
	Fecha             string    `json:"fecha"`
	Hora              string    `json:"hora"`
	OrganizadorID     string    `json:"organizadorId"`
	OrganizadorNombre string    `json:"organizadorNombre"`
	Asistentes        []string  `json:"asistentes"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (e *Evento) PartitionKey() string {
	return e.ID
}

// TieneAsistente indica si el uid está confirmado en el evento.
func (e *Evento) TieneAsistente(uid string) bool {
	for _, a := range e.Asistentes {
		if a == uid {
			return true
		}
	}
	return false
}

// EsOrganizador indica si el uid es el dueño del evento.
func (e *Evento) EsOrganizador(uid string) bool {
	return e.OrganizadorID == uid
}

// Cambios son los campos editables de un evento en una actualización parcial.
// Un puntero nil significa "no tocar ese campo".
type Cambios struct {
	Nombre      *string
	Descripcion *string
	Ubicacion   *string
	Fecha       *string
	Hora        *string
}

// Campos devuelve los cambios como mapa campo→valor, sólo con los presentes.
func (c Cambios) Campos() map[string]interface{} {
	campos := make(map[string]interface{})
	if c.Nombre != nil {
		campos["nombre"] = *c.Nombre
	}
	if c.Descripcion != nil {
		campos["descripcion"] = *c.Descripcion
	}
	if c.Ubicacion != nil {
		campos["ubicacion"] = *c.Ubicacion
	}
	if c.Fecha != nil {
		campos["fecha"] = *c.Fecha
	}
	if c.Hora != nil {
		campos["hora"] = *c.Hora
	}
	return campos
}

// Aplicar vuelca los cambios sobre el evento. Lo usan los adapters que no
// soportan actualizaciones parciales nativas.
func (c Cambios) Aplicar(e *Evento) {
	for campo, valor := range c.Campos() {
		v := valor.(string)
		switch campo {
		case "nombre":
			e.Nombre = v
		case "descripcion":
			e.Descripcion = v
		case "ubicacion":
			e.Ubicacion = v
		case "fecha":
			e.Fecha = v
		case "hora":
			e.Hora = v
		}
	}
}

// SortPorCreacionDesc ordena más reciente primero. Los eventos sin timestamp
// resoluble (cero) quedan al final.
func SortPorCreacionDesc(eventos []*Evento) {
	sort.SliceStable(eventos, func(i, j int) bool {
		return eventos[i].CreatedAt.After(eventos[j].CreatedAt)
	})
}

// CacheKeyByID forma una key consistente para cache usando el id del evento.
func CacheKeyByID(id string) string {
	return fmt.Sprintf("evento:id:%s", id)
}

// Las constantes de los tipos de evento se definen aquí, como valores string.
const (
	EventoCreado         = "evento.creado"
	EventoActualizado    = "evento.actualizado"
	EventoEliminado      = "evento.eliminado"
	AsistenciaConfirmada = "asistencia.confirmada"
	AsistenciaCancelada  = "asistencia.cancelada"
)

const EventoTopic = "eventos"

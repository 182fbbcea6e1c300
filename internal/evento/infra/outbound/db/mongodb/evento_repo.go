package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	eventoDomain "github.com/vivento/vivento/internal/evento/domain"
	sharedDomain "github.com/vivento/vivento/internal/shared/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// EventoRepoMongoDB implementa EventoRepository sobre la colección eventos.
type EventoRepoMongoDB struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewEventoRepoMongoDB es el constructor del repositorio.
func NewEventoRepoMongoDB(ctx context.Context, client *mongo.Client, dbName string) (*EventoRepoMongoDB, error) {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("could not ping mongoDB: %w", err)
	}

	return &EventoRepoMongoDB{
		client: client,
		coll:   client.Database(dbName).Collection("eventos"),
	}, nil
}

// --- Structs de BSON para el mapeo ---
// Se definen localmente para no "contaminar" el dominio con tags de BSON.

type mongoEvento struct {
	ID                primitive.ObjectID `bson:"_id"`
	Nombre            string             `bson:"nombre"`
	Descripcion       string             `bson:"descripcion"`
	Ubicacion         string             `bson:"ubicacion"`
	Fecha             string             `bson:"fecha"`
	Hora              string             `bson:"hora"`
	OrganizadorID     string             `bson:"organizadorId"`
	OrganizadorNombre string             `bson:"organizadorNombre"`
	Asistentes        []string           `bson:"asistentes"`
	IsActive          bool               `bson:"isActive"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

// --- Escritura ---

// Create inserta el documento vía upsert para que createdAt/updatedAt los
// asigne el servidor con $currentDate, nunca el reloj del cliente.
func (r *EventoRepoMongoDB) Create(ctx context.Context, e *eventoDomain.Evento) (string, error) {
	oid := primitive.NewObjectID()

	update := bson.M{
		"$setOnInsert": bson.M{
			"nombre":            e.Nombre,
			"descripcion":       e.Descripcion,
			"ubicacion":         e.Ubicacion,
			"fecha":             e.Fecha,
			"hora":              e.Hora,
			"organizadorId":     e.OrganizadorID,
			"organizadorNombre": e.OrganizadorNombre,
			"asistentes":        []string{},
			"isActive":          true,
		},
		"$currentDate": bson.M{"createdAt": true, "updatedAt": true},
	}

	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", wrap(err)
	}
	return oid.Hex(), nil
}

func (r *EventoRepoMongoDB) AddAsistente(ctx context.Context, eventoID, uid string) error {
	return r.updateAsistentes(ctx, eventoID, bson.M{"$addToSet": bson.M{"asistentes": uid}})
}

func (r *EventoRepoMongoDB) RemoveAsistente(ctx context.Context, eventoID, uid string) error {
	return r.updateAsistentes(ctx, eventoID, bson.M{"$pull": bson.M{"asistentes": uid}})
}

// updateAsistentes aplica el write primitivo de conjunto ($addToSet/$pull) y
// sube updatedAt en la misma escritura.
func (r *EventoRepoMongoDB) updateAsistentes(ctx context.Context, eventoID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(eventoID)
	if err != nil {
		return eventoDomain.ErrEventoNotFound
	}

	update["$currentDate"] = bson.M{"updatedAt": true}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return wrap(err)
	}
	if res.MatchedCount == 0 {
		return eventoDomain.ErrEventoNotFound
	}
	return nil
}

// UpdateOwned mete la propiedad en el filtro: una sola escritura condicional,
// sin leer antes de escribir. Sólo cuando no hay match se hace una lectura
// extra para distinguir "no existe" de "no es tuyo".
func (r *EventoRepoMongoDB) UpdateOwned(ctx context.Context, eventoID, ownerUID string, cambios eventoDomain.Cambios) error {
	set := bson.M{}
	for campo, valor := range cambios.Campos() {
		set[campo] = valor
	}
	update := bson.M{"$currentDate": bson.M{"updatedAt": true}}
	if len(set) > 0 {
		update["$set"] = set
	}
	return r.updateOwned(ctx, eventoID, ownerUID, update)
}

func (r *EventoRepoMongoDB) SoftDeleteOwned(ctx context.Context, eventoID, ownerUID string) error {
	update := bson.M{
		"$set":         bson.M{"isActive": false},
		"$currentDate": bson.M{"updatedAt": true},
	}
	return r.updateOwned(ctx, eventoID, ownerUID, update)
}

func (r *EventoRepoMongoDB) updateOwned(ctx context.Context, eventoID, ownerUID string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(eventoID)
	if err != nil {
		return eventoDomain.ErrEventoNotFound
	}

	filter := bson.M{"_id": oid, "organizadorId": ownerUID}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrap(err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Sin match: o el documento no existe o el llamante no es el dueño.
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return eventoDomain.ErrEventoNotFound
	}
	if err != nil {
		return wrap(err)
	}
	return eventoDomain.ErrNoEsOrganizador
}

// --- Lectura ---

func (r *EventoRepoMongoDB) GetByID(ctx context.Context, id string) (*eventoDomain.Evento, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, eventoDomain.ErrEventoNotFound
	}

	var me mongoEvento
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&me)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, eventoDomain.ErrEventoNotFound
		}
		return nil, wrap(err)
	}
	return fromMongoEvento(&me), nil
}

func (r *EventoRepoMongoDB) ListActive(ctx context.Context) ([]*eventoDomain.Evento, error) {
	return r.list(ctx, bson.M{"isActive": true})
}

func (r *EventoRepoMongoDB) ListConfirmados(ctx context.Context, uid string) ([]*eventoDomain.Evento, error) {
	return r.list(ctx, bson.M{"asistentes": uid, "isActive": true})
}

func (r *EventoRepoMongoDB) ListCreados(ctx context.Context, uid string) ([]*eventoDomain.Evento, error) {
	return r.list(ctx, bson.M{"organizadorId": uid, "isActive": true})
}

// list ordena descendente por createdAt; los documentos sin timestamp
// resoluble quedan al final (missing ordena como el valor más bajo).
func (r *EventoRepoMongoDB) list(ctx context.Context, filter bson.M) ([]*eventoDomain.Evento, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrap(err)
	}
	defer cursor.Close(ctx)

	var eventos []*eventoDomain.Evento
	for cursor.Next(ctx) {
		var me mongoEvento
		if err := cursor.Decode(&me); err != nil {
			return nil, wrap(err)
		}
		eventos = append(eventos, fromMongoEvento(&me))
	}
	if err := cursor.Err(); err != nil {
		return nil, wrap(err)
	}

	return eventos, nil
}

// --- Helpers de Mapeo y Conversión ---

func fromMongoEvento(me *mongoEvento) *eventoDomain.Evento {
	asistentes := me.Asistentes
	if asistentes == nil {
		asistentes = []string{}
	}
	return &eventoDomain.Evento{
		ID:                me.ID.Hex(),
		Nombre:            me.Nombre,
		Descripcion:       me.Descripcion,
		Ubicacion:         me.Ubicacion,
		Fecha:             me.Fecha,
		Hora:              me.Hora,
		OrganizadorID:     me.OrganizadorID,
		OrganizadorNombre: me.OrganizadorNombre,
		Asistentes:        asistentes,
		IsActive:          me.IsActive,
		CreatedAt:         me.CreatedAt,
		UpdatedAt:         me.UpdatedAt,
	}
}

func wrap(err error) error {
	return fmt.Errorf("%w: %v", sharedDomain.ErrAlmacenNoDisponible, err)
}

// Verificación estática de la interfaz.
var _ eventoDomain.EventoRepository = (*EventoRepoMongoDB)(nil)

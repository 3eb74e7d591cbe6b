package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopmetrics/ybscontrol/internal/domain/models"
)

// printFileStep is recorded locally when an operator prints the job file;
// the portal itself never reports it, so it must survive rescrapes.
const printFileStep = "Print File"

// Repository defines the interface for order storage.
type Repository interface {
	SaveOrder(ctx context.Context, order models.Order, leadTimes []models.LeadTimeEntry) error
	RecordPrintFileStart(ctx context.Context, orderNumber string, ts time.Time) error
	LoadSteps(ctx context.Context, orderNumber string) ([]models.Step, error)
	LoadLeadTimes(ctx context.Context, orderNumber string, start, end *time.Time) ([]models.LeadTimeEntry, error)
	LoadJobsByDateRange(ctx context.Context, start, endExclusive time.Time) ([]models.JobRangeRow, error)
}

// orderDocument is the persisted shape: one document per order so that steps
// and derived lead times replace as a unit, never partially.
type orderDocument struct {
	OrderNumber string                 `bson:"order_number"`
	Company     string                 `bson:"company"`
	Steps       []models.Step          `bson:"steps"`
	LeadTimes   []models.LeadTimeEntry `bson:"lead_times"`
	UpdatedAt   time.Time              `bson:"updated_at"`
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "orders",
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveOrder replaces an order's steps and derived lead times as one upsert.
// A previously recorded Print File step is carried over when the fresh
// scrape lacks one.
func (r *MongoDBRepository) SaveOrder(ctx context.Context, order models.Order, leadTimes []models.LeadTimeEntry) error {
	existing, err := r.findOrder(ctx, order.Number)
	if err != nil {
		return err
	}

	steps := order.Steps
	if existing != nil {
		if pf := findStep(existing.Steps, printFileStep); pf != nil && findStep(steps, printFileStep) == nil {
			steps = append([]models.Step{*pf}, steps...)
		}
	}

	doc := orderDocument{
		OrderNumber: order.Number,
		Company:     order.Company,
		Steps:       steps,
		LeadTimes:   leadTimes,
		UpdatedAt:   time.Now().UTC(),
	}

	_, err = r.collection().ReplaceOne(ctx,
		bson.M{"order_number": order.Number},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save order %s: %w", order.Number, err)
	}
	return nil
}

// RecordPrintFileStart notes the Print File timestamp for an order the first
// time it is seen; subsequent calls are no-ops.
func (r *MongoDBRepository) RecordPrintFileStart(ctx context.Context, orderNumber string, ts time.Time) error {
	existing, err := r.findOrder(ctx, orderNumber)
	if err != nil {
		return err
	}
	if existing == nil {
		doc := orderDocument{
			OrderNumber: orderNumber,
			Steps:       []models.Step{{Name: printFileStep, Timestamp: &ts}},
			UpdatedAt:   time.Now().UTC(),
		}
		if _, err := r.collection().InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("failed to record print file start for %s: %w", orderNumber, err)
		}
		return nil
	}
	if findStep(existing.Steps, printFileStep) != nil {
		return nil
	}

	step := models.Step{Name: printFileStep, Timestamp: &ts}
	_, err = r.collection().UpdateOne(ctx,
		bson.M{"order_number": orderNumber, "steps.step": bson.M{"$ne": printFileStep}},
		bson.M{"$push": bson.M{"steps": bson.M{"$each": bson.A{step}, "$position": 0}}})
	if err != nil {
		return fmt.Errorf("failed to record print file start for %s: %w", orderNumber, err)
	}
	return nil
}

// LoadSteps returns the complete ordered step list for an order, or nil when
// the order is unknown. A known order with no steps yet yields an empty
// non-nil slice so callers can tell the two apart.
func (r *MongoDBRepository) LoadSteps(ctx context.Context, orderNumber string) ([]models.Step, error) {
	doc, err := r.findOrder(ctx, orderNumber)
	if err != nil || doc == nil {
		return nil, err
	}
	if doc.Steps == nil {
		return []models.Step{}, nil
	}
	return doc.Steps, nil
}

// LoadLeadTimes returns an order's precomputed lead times, optionally
// filtered to entries starting at or after start and ending at or before
// end, sorted by start time.
func (r *MongoDBRepository) LoadLeadTimes(ctx context.Context, orderNumber string, start, end *time.Time) ([]models.LeadTimeEntry, error) {
	doc, err := r.findOrder(ctx, orderNumber)
	if err != nil || doc == nil {
		return nil, err
	}

	entries := make([]models.LeadTimeEntry, 0, len(doc.LeadTimes))
	for _, e := range doc.LeadTimes {
		if start != nil && e.Start.Before(*start) {
			continue
		}
		if end != nil && e.End.After(*end) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Start.Before(entries[j].Start) })
	return entries, nil
}

// LoadJobsByDateRange returns every lead-time row whose start falls in
// [start, endExclusive), joined with its order metadata.
func (r *MongoDBRepository) LoadJobsByDateRange(ctx context.Context, start, endExclusive time.Time) ([]models.JobRangeRow, error) {
	filter := bson.M{"lead_times": bson.M{"$elemMatch": bson.M{
		"start": bson.M{"$gte": start, "$lt": endExclusive},
	}}}

	cursor, err := r.collection().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs by date range: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.JobRangeRow
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order document: %w", err)
		}
		for _, e := range doc.LeadTimes {
			if e.Start.Before(start) || !e.Start.Before(endExclusive) {
				continue
			}
			status := "In Progress"
			if !e.End.IsZero() {
				status = "Completed"
			}
			rows = append(rows, models.JobRangeRow{
				Order:       doc.OrderNumber,
				Company:     doc.Company,
				Workstation: e.Workstation,
				Hours:       e.Hours,
				Status:      status,
				Start:       e.Start,
				End:         e.End,
			})
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed reading jobs by date range: %w", err)
	}
	return rows, nil
}

func (r *MongoDBRepository) findOrder(ctx context.Context, orderNumber string) (*orderDocument, error) {
	var doc orderDocument
	err := r.collection().FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s: %w", orderNumber, err)
	}
	return &doc, nil
}

func findStep(steps []models.Step, name string) *models.Step {
	for i := range steps {
		if steps[i].Name == name {
			return &steps[i]
		}
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

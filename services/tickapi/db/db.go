package db

import (
	"fmt"
	"os"

	"github.com/go-pg/pg"

	tickCtx "github.com/tickpiar/tick/services/tickapi/context"
)

// Client is a Postgres client.
// It wraps a pool of Postgres DB connections.
type Client struct {
	*pg.DB
	config tickCtx.Config
}

type dbLogger struct{}

func (d dbLogger) BeforeQuery(q *pg.QueryEvent) {
}

func (d dbLogger) AfterQuery(q *pg.QueryEvent) {
	fmt.Println(q.FormattedQuery())
}

// NewDBClient creates a Postgres client
func NewDBClient(config tickCtx.Config) *Client {
	db := pg.Connect(&pg.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Database.Host, config.Database.Port),
		User:     config.Database.User,
		Password: config.Database.Pass,
		Database: config.Database.Name,
		PoolSize: config.Database.Pool,
	})
	if os.Getenv("PG_DEBUG_QUERY") == "true" {
		db.AddQueryHook(dbLogger{})
	}

	return &Client{db, config}
}

// GenericMutations write to the database
type GenericMutations interface {
	Add(model ...interface{}) error
	UpdateModel(model interface{}) error
}

// Add adds any number of models as database rows
func (c *Client) Add(model ...interface{}) error {
	return c.Insert(model...)
}

// UpdateModel updates a model
func (c *Client) UpdateModel(model interface{}) error {
	return c.Update(model)
}

// GenericQueries are generic reads for models
type GenericQueries interface {
	Count(model interface{}) (int, error)
	Find(model interface{}) error
	FindAll(models interface{}) error
}

// Count returns the count of the model
func (c *Client) Count(model interface{}) (count int, err error) {
	count, err = c.Model(model).Count()

	return
}

// Find selects a single model by primary key
func (c *Client) Find(model interface{}) error {
	return c.Select(model)
}

// FindAll selects all models
func (c *Client) FindAll(models interface{}) error {
	return c.Model(models).Select()
}

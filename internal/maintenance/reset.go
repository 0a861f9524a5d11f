// Package maintenance holds one-off operational tasks run outside the API server.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Step names a stage of the reset.
type Step string

const (
	StepConnect Step = "connect"
	StepDrop    Step = "drop"
	StepClose   Step = "close"
)

var (
	ErrConnect = errors.New("connect failed")
	ErrDrop    = errors.New("drop failed")
	ErrClose   = errors.New("close failed")

	// ErrProductionGuard is returned when a reset targets production without force.
	ErrProductionGuard = errors.New("refusing to reset a production database without -force")
	ErrNoDatabase      = errors.New("no database name configured")
)

// StepError reports which step of the reset failed.
// It matches the step sentinel (ErrConnect, ErrDrop, ErrClose) and the cause.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("reset %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() []error {
	return []error{stepSentinel(e.Step), e.Err}
}

func stepSentinel(step Step) error {
	switch step {
	case StepConnect:
		return ErrConnect
	case StepDrop:
		return ErrDrop
	default:
		return ErrClose
	}
}

// Database is the part of a database handle the reset needs.
type Database interface {
	Drop(ctx context.Context) error
}

// Session is an open connection to the document store.
type Session interface {
	Database(name string) Database
	Disconnect(ctx context.Context) error
}

// Connector opens a Session. It must return an error when the server is unreachable.
type Connector func(ctx context.Context, uri string) (Session, error)

// Options selects the target of a reset.
type Options struct {
	URI      string
	Database string
	Env      string
	Timeout  time.Duration
	Force    bool
	DryRun   bool
}

// Resetter drops a whole database.
type Resetter struct {
	connect Connector
	logger  *zap.Logger
}

// NewResetter builds a Resetter. A nil connector uses MongoConnector.
func NewResetter(connect Connector, logger *zap.Logger) *Resetter {
	if connect == nil {
		connect = MongoConnector
	}
	return &Resetter{connect: connect, logger: logger.Named("reset")}
}

// Guard refuses production targets unless force is set.
func Guard(env string, force bool) error {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		if !force {
			return ErrProductionGuard
		}
	}
	return nil
}

// Run connects, drops opts.Database and disconnects. Disconnect is attempted even
// when the drop fails; both failures are returned joined.
func (r *Resetter) Run(ctx context.Context, opts Options) error {
	if err := Guard(opts.Env, opts.Force); err != nil {
		r.logger.Error("reset refused", zap.String("env", opts.Env), zap.Error(err))
		return err
	}
	if strings.TrimSpace(opts.Database) == "" {
		return ErrNoDatabase
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	log := r.logger.With(zap.String("database", opts.Database))

	log.Info("connecting")
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	session, err := r.connect(connectCtx, opts.URI)
	cancel()
	if err != nil {
		log.Error("connect failed", zap.Error(err))
		return &StepError{Step: StepConnect, Err: err}
	}
	log.Info("connected")

	var dropErr error
	if opts.DryRun {
		log.Info("dry run, database left untouched")
	} else {
		dropCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := session.Database(opts.Database).Drop(dropCtx); err != nil {
			log.Error("drop failed", zap.Error(err))
			dropErr = &StepError{Step: StepDrop, Err: err}
		} else {
			log.Info("database dropped")
		}
		cancel()
	}

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	var closeErr error
	if err := session.Disconnect(closeCtx); err != nil {
		log.Error("close failed", zap.Error(err))
		closeErr = &StepError{Step: StepClose, Err: err}
	} else {
		log.Info("connection closed")
	}

	return errors.Join(dropErr, closeErr)
}

// MongoConnector connects to MongoDB and pings the primary so an unreachable
// server fails the connect step.
func MongoConnector(ctx context.Context, uri string) (Session, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	return mongoSession{client: client}, nil
}

type mongoSession struct {
	client *mongo.Client
}

func (s mongoSession) Database(name string) Database {
	return s.client.Database(name)
}

func (s mongoSession) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

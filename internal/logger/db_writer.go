package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/KaushikeeBhatt/file-tracking-system/internal/config"
	"github.com/KaushikeeBhatt/file-tracking-system/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level   zapcore.Level
	Message string
	UserID  string
	Caller  string
}

type systemLog struct {
	AppID     string    `bson:"app_id"`
	Level     string    `bson:"level"`
	Message   string    `bson:"message"`
	UserID    string    `bson:"user_id,omitempty"`
	Caller    string    `bson:"caller,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
	appId   string
}

// NewDBLogWriter initializes the worker
func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000),
		appId:   cfg.AppId,
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap hook. Never blocks the request path.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the API
		fmt.Println("System log channel full, dropping:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := systemLog{
			AppID:     w.appId,
			Level:     entry.Level.String(),
			Message:   entry.Message,
			UserID:    entry.UserID,
			Caller:    entry.Caller,
			CreatedAt: time.Now().UTC(),
		}

		// Insert errors are ignored to keep the app running
		w.db.Collection("system_logs").InsertOne(context.Background(), record)
	}
}

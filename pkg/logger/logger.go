package logger

import (
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	std  *charmlog.Logger
	once sync.Once
)

// Init configures the process-wide logger. Safe to call more than once.
func Init() {
	once.Do(func() {
		std = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportTimestamp: true,
		})
	})
}

func logger() *charmlog.Logger {
	Init()
	return std
}

func flatten(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	return args
}

func Info(event string, fields map[string]interface{}) {
	logger().Info(event, flatten(fields)...)
}

func Warn(event string, fields map[string]interface{}) {
	logger().Warn(event, flatten(fields)...)
}

func Error(event string, err error, fields map[string]interface{}) {
	args := flatten(fields)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	logger().Error(event, args...)
}

func InfoWithUser(userID, event string, fields map[string]interface{}) {
	logger().Info(event, append(flatten(fields), "user_id", userID)...)
}

func WarnWithUser(userID, event string, fields map[string]interface{}) {
	logger().Warn(event, append(flatten(fields), "user_id", userID)...)
}

package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LogrusFileHook appends every entry as one JSON line to a file
type LogrusFileHook struct {
	sync.Mutex
	file      *os.File
	formatter *logrus.JSONFormatter
	levels    []logrus.Level
}

// NewLogrusFileHook opens $file for appending, entries below $minimum are skipped
func NewLogrusFileHook(file string, minimum logrus.Level) (*LogrusFileHook, error) {
	logFile, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "opening log file %s", file)
	}

	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		if level <= minimum {
			levels = append(levels, level)
		}
	}

	return &LogrusFileHook{
		file:      logFile,
		formatter: &logrus.JSONFormatter{},
		levels:    levels,
	}, nil
}

// Fire event
func (hook *LogrusFileHook) Fire(entry *logrus.Entry) error {
	line, err := hook.formatter.Format(entry)
	if err != nil {
		return err
	}

	hook.Lock()
	defer hook.Unlock()
	_, err = hook.file.Write(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to write file on filehook: %v\n", err)
		return err
	}
	return nil
}

func (hook *LogrusFileHook) Levels() []logrus.Level {
	return hook.levels
}

func (hook *LogrusFileHook) Close() error {
	hook.Lock()
	defer hook.Unlock()
	return hook.file.Close()
}

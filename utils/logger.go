package utils

import (
	"fmt"
	"time"
)

// ANSI colour codes that make terminal output easier to read while debugging
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	grey   = "\033[90m"
)

var debugEnabled bool

// EnableDebug turns on Debug output for the process.
func EnableDebug() {
	debugEnabled = true
}

func ts() string {
	return time.Now().Format("15:04:05")
}

func Info(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [INFO]  %s%s\n", blue, ts(), fmt.Sprintf(format, a...), reset)
}

func Success(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [OK]    %s%s\n", green, ts(), fmt.Sprintf(format, a...), reset)
}

func Warn(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [WARN]  %s%s\n", yellow, ts(), fmt.Sprintf(format, a...), reset)
}

func Error(format string, a ...interface{}) {
	fmt.Printf("%s[%s] [ERROR] %s%s\n", red, ts(), fmt.Sprintf(format, a...), reset)
}

func Debug(format string, a ...interface{}) {
	if !debugEnabled {
		return
	}
	fmt.Printf("%s[%s] [DEBUG] %s%s\n", grey, ts(), fmt.Sprintf(format, a...), reset)
}

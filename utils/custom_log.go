package utils

import "log"

const (
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

var (
	_colorPrint = false
	_debugPrint = false
)

func SetColorPrint(enable bool) {
	_colorPrint = enable
}

// SetDebug turns LogDebug output on or off.
func SetDebug(enable bool) {
	_debugPrint = enable
}

func IsDebug() bool {
	return _debugPrint
}

func levelFormat(color, level, format string) string {
	if _colorPrint {
		return color + level + " " + format + colorReset + "\n"
	}
	return level + " " + format + "\n"
}

func LogDebug(format string, v ...interface{}) {
	if !_debugPrint {
		return
	}
	log.Printf(levelFormat(colorCyan, "DEBU", format), v...)
}

func LogInfo(format string, v ...interface{}) {
	log.Printf(levelFormat(colorGreen, "INFO", format), v...)
}

func LogWarn(format string, v ...interface{}) {
	log.Printf(levelFormat(colorYellow, "WARN", format), v...)
}

func LogErro(format string, v ...interface{}) {
	log.Printf(levelFormat(colorRed, "ERRO", format), v...)
}

func LogFatal(format string, v ...interface{}) {
	log.Fatalf(levelFormat(colorRed, "FATAL", format), v...)
}

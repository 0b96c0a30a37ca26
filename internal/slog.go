package internal

import (
	"fmt"
	"log/slog"
	"os"
)

// InitSlog installs a text handler on stderr at the given level as the
// default logger. Unknown levels fall back to info.
func InitSlog(level string) {
	var programLevel slog.Level
	if err := (&programLevel).UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v, using info\n", level, err)
		programLevel = slog.LevelInfo
	}

	leveler := &slog.LevelVar{}
	leveler.Set(programLevel)

	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: programLevel <= slog.LevelDebug,
		Level:     leveler,
	})
	slog.SetDefault(slog.New(h))
}

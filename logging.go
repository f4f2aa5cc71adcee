package vredis

import "log/slog"

// Attribute helpers for structured logging.
var (
	Component = func(name string) slog.Attr {
		return slog.String("component", name)
	}

	ConnID = func(id string) slog.Attr {
		return slog.String("conn_id", id)
	}

	ErrorField = func(err error) slog.Attr {
		if err == nil {
			return slog.String("error", "<nil>")
		}
		return slog.String("error", err.Error())
	}
)

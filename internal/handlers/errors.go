package handlers

import (
	"net/http"

	"followerscope/internal/logger"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		logger.Log.Error().Err(err).Msg(logMsg)
	}

	http.Error(w, userMsg, status)
}

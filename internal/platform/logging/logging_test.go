// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/socialnet/internal/platform/logging"
)

func TestNew(t *testing.T) {
	var out bytes.Buffer

	logger := logging.New(&out, "gateway", false)
	logger.Debug("hidden")
	logger.Info("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "gateway", entry["app"])

	out.Reset()
	logging.New(&out, "gateway", true).Debug("visible")
	assert.Contains(t, out.String(), `"msg":"visible"`)
}

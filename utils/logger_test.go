/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestNewLoggerRegistry(t *testing.T) {
	l := NewLogger("registry-test")
	assert.Same(t, l, NewLogger("registry-test"))

	assert.True(t, SetLoggerLevel("registry-test", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("never-created", "error"))
}

func TestJSONLogFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&JSONLogFormatter{LoggerName: "SEARCH"})

	l.WithField("mode", "optimized").Info("page served")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "SEARCH", rec["logger"])
	assert.Equal(t, "page served", rec["message"])
	assert.Equal(t, map[string]interface{}{"mode": "optimized"}, rec["fields"])
}

func TestLog4jColorFormatterFields(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(&Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10})

	l.WithFields(logrus.Fields{"b": 2, "a": 1}).Warn("slow")
	out := buf.String()
	assert.Contains(t, out, "slow a=1 b=2")
	assert.Contains(t, out, "DATABASE")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("ROSTER_TEST_BOOL", "yes")
	t.Setenv("ROSTER_TEST_SECONDS", "3")
	t.Setenv("ROSTER_TEST_DURATION", "150ms")
	t.Setenv("ROSTER_TEST_INT", "42")

	assert.Equal(t, "x", EnvDefaultString("ROSTER_TEST_UNSET", "x"))
	assert.True(t, EnvDefaultBool("ROSTER_TEST_UNSET", true))
	assert.False(t, EnvDefaultBool("ROSTER_TEST_BOOL", false))
	assert.Equal(t, 42, EnvDefaultInt("ROSTER_TEST_INT", 0))
	assert.Equal(t, 7, EnvDefaultInt("ROSTER_TEST_DURATION", 7))
	assert.Equal(t, 3*time.Second, EnvDefaultDuration("ROSTER_TEST_SECONDS", 0))
	assert.Equal(t, 150*time.Millisecond, EnvDefaultDuration("ROSTER_TEST_DURATION", 0))
}

package permissions

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetAccessType(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	p := NewController([]int64{100, 200}, logger)

	assert.Equal(t, Admin, p.GetAccessType(100))
	assert.Equal(t, Admin, p.GetAccessType(200))
	assert.Equal(t, None, p.GetAccessType(300))
}

package mqtt

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"navigation-qr/internal/graph"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(topic string, qos byte, retained bool, payload interface{}) error {
	args := m.Called(topic, qos, retained, payload)
	return args.Error(0)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "umag/qr/piso1/P1_A", Topic("umag/qr", 1, "P1_A"))
	assert.Equal(t, "umag/qr/piso2/P2_a_b", Topic("umag/qr/", 2, "P2_a/b"))
	assert.Equal(t, "x/piso3/__", Topic("x", 3, "+#"))
}

func TestPublishFloor(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{{ID: "P1_A"}, {}}}

	pub := new(MockPublisher)
	pub.On("Publish", "umag/qr/piso1/P1_A", byte(1), true,
		`{"type": "nodo", "id": "P1_A", "piso": 1, "x": null, "y": null}`).Return(nil).Once()
	pub.On("Publish", "umag/qr/piso1/nodo_2", byte(1), true,
		`{"type": "nodo", "id": "", "piso": 1, "x": null, "y": null}`).Return(nil).Once()

	n, err := PublishFloor(pub, "umag/qr", 1, 1, g)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	pub.AssertExpectations(t)
}

func TestPublishFloor_StopsOnError(t *testing.T) {
	g := &graph.Graph{Nodes: []graph.Node{{ID: "P1_A"}, {ID: "P1_B"}, {ID: "P1_C"}}}

	pub := new(MockPublisher)
	pub.On("Publish", "q/piso1/P1_A", byte(0), true, mock.Anything).Return(nil)
	pub.On("Publish", "q/piso1/P1_B", byte(0), true, mock.Anything).Return(errors.New("broker down"))

	n, err := PublishFloor(pub, "q", 0, 1, g)
	assert.EqualError(t, err, "broker down")
	assert.Equal(t, 1, n)
	pub.AssertNotCalled(t, "Publish", "q/piso1/P1_C", byte(0), true, mock.Anything)
}

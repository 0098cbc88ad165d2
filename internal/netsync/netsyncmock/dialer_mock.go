// Package netsyncmock provides a gomock-style mock of netsync.Dialer,
// hand-authored in the shape mockgen would generate (teacher pack's
// validatorsmock re-exports one built the same way).
package netsyncmock

import (
	"net"
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockDialer mocks netsync.Dialer.
type MockDialer struct {
	ctrl     *gomock.Controller
	recorder *MockDialerMockRecorder
}

// MockDialerMockRecorder is the EXPECT() recorder for MockDialer.
type MockDialerMockRecorder struct {
	mock *MockDialer
}

// NewMockDialer constructs a MockDialer bound to ctrl.
func NewMockDialer(ctrl *gomock.Controller) *MockDialer {
	mock := &MockDialer{ctrl: ctrl}
	mock.recorder = &MockDialerMockRecorder{mock: mock}
	return mock
}

// EXPECT returns the recorder used to set expectations.
func (m *MockDialer) EXPECT() *MockDialerMockRecorder {
	return m.recorder
}

// Dial implements netsync.Dialer.
func (m *MockDialer) Dial(network, address string) (net.Conn, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Dial", network, address)
	conn, _ := ret[0].(net.Conn)
	err, _ := ret[1].(error)
	return conn, err
}

// Dial records an expectation for a Dial call.
func (mr *MockDialerMockRecorder) Dial(network, address interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Dial", reflect.TypeOf((*MockDialer)(nil).Dial), network, address)
}

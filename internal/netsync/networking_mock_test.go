package netsync

import (
	"errors"
	"testing"

	"github.com/citybound/citybound-sub004/internal/netsync/netsyncmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConnectSurfacesDialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := netsyncmock.NewMockDialer(ctrl)
	dialer.EXPECT().Dial("tcp", "peer1:9000").Return(nil, errors.New("connection refused"))

	n := NewNetworking(0, []string{"peer0:9000", "peer1:9000"}, 4096)
	n.SetDialer(dialer)

	err := n.Connect()
	assert.Error(t, err)
}

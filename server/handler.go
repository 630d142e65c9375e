// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/rpc/v2"
	"go.uber.org/zap"

	"github.com/ava-labs/shieldswap/errkind"
)

// NewHandler exposes the exported methods of [service] as JSON-RPC
// methods named [name].Method. Failed calls are logged at debug with
// the kind of error they returned.
func NewHandler(log logging.Logger, service any, name string) (http.Handler, error) {
	s := rpc.NewServer()
	c := json.NewCodec()
	s.RegisterCodec(c, "application/json")
	s.RegisterCodec(c, "application/json;charset=UTF-8")
	s.RegisterAfterFunc(func(info *rpc.RequestInfo) {
		if info.Error == nil {
			return
		}
		log.Debug("rpc call failed",
			zap.String("method", info.Method),
			zap.Stringer("kind", errkind.Of(info.Error)),
			zap.Error(info.Error),
		)
	})
	if err := s.RegisterService(service, name); err != nil {
		return nil, err
	}
	return s, nil
}

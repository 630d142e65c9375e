// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/shieldswap/consts"

	dto "github.com/prometheus/client_model/go"
)

func testConfig() ServerConfig {
	cfg := NewDefaultServerConfig()
	cfg.MaxMessageWait = 10 * time.Millisecond
	return cfg
}

func dial(t *testing.T, url string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitConns(t *testing.T, s *Server, n int) {
	require.Eventually(t, func() bool {
		return s.Connections().Len() == n
	}, time.Second, 5*time.Millisecond)
}

func TestServerPublish(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, testConfig(), nil)
	web := httptest.NewServer(s)
	defer web.Close()

	conn := dial(t, web.URL)
	waitConns(t, s, 1)

	require.Empty(s.Publish([]byte("a"), s.Connections()))
	require.Empty(s.Publish([]byte("b"), s.Connections()))

	require.NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	var got [][]byte
	for len(got) < 2 {
		_, raw, err := conn.ReadMessage()
		require.NoError(err)
		msgs, err := ParseBatchMessage(64*1024, raw)
		require.NoError(err)
		got = append(got, msgs...)
	}
	require.Equal([][]byte{[]byte("a"), []byte("b")}, got)
}

func TestServerCallback(t *testing.T) {
	require := require.New(t)

	received := make(chan []byte, 2)
	s := New(logging.NoLog{}, testConfig(), func(msg []byte, c *Connection) {
		received <- msg
		_ = c.Send(append([]byte("echo:"), msg...))
	})
	web := httptest.NewServer(s)
	defer web.Close()

	conn := dial(t, web.URL)
	waitConns(t, s, 1)

	require.NoError(conn.WriteMessage(websocket.BinaryMessage, CreateBatchMessage([][]byte{[]byte("x"), []byte("y")})))
	require.Equal([]byte("x"), <-received)
	require.Equal([]byte("y"), <-received)

	require.NoError(conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(err)
	msgs, err := ParseBatchMessage(64*1024, raw)
	require.NoError(err)
	require.Equal([]byte("echo:x"), msgs[0])
}

func TestServerPublishInactive(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, testConfig(), nil)
	web := httptest.NewServer(s)
	defer web.Close()

	conn := dial(t, web.URL)
	waitConns(t, s, 1)

	group := NewConnections()
	for _, c := range s.Connections().Conns() {
		group.Add(c)
	}
	require.NoError(conn.Close())
	waitConns(t, s, 0)

	inactive := s.Publish([]byte("late"), group)
	require.Len(inactive, 1)
}

func TestBatchMessage(t *testing.T) {
	require := require.New(t)

	msgs := [][]byte{[]byte("one"), {}, []byte("three")}
	raw := CreateBatchMessage(msgs)
	got, err := ParseBatchMessage(len(raw), raw)
	require.NoError(err)
	require.Len(got, 3)
	require.Equal([]byte("three"), got[2])

	_, err = ParseBatchMessage(len(raw), raw[:len(raw)-1])
	require.Error(err)
}

func TestMessageBufferTooLarge(t *testing.T) {
	mb := NewMessageBuffer(logging.NoLog{}, 1, 4, time.Second)
	require.ErrorIs(t, mb.Send([]byte("12345")), ErrMessageTooLarge)
	require.NoError(t, mb.Close())
	require.ErrorIs(t, mb.Send([]byte("1")), ErrClosed)
}

func TestMessageBufferDrop(t *testing.T) {
	require := require.New(t)

	mb := NewMessageBuffer(logging.NoLog{}, 1, 4, time.Hour)
	dropped := 0
	mb.onDrop = func(n int) { dropped += n }

	require.NoError(mb.Send([]byte("aaa")))
	// each send overflows the open batch
	require.NoError(mb.Send([]byte("bbb")))
	require.NoError(mb.Send([]byte("ccc")))
	require.Equal(1, dropped)
	require.Len(mb.Queue, 1)

	require.NoError(mb.Close())
	msgs, err := ParseBatchMessage(4, <-mb.Queue)
	require.NoError(err)
	require.Equal([][]byte{[]byte("aaa")}, msgs)
}

func TestServerMetrics(t *testing.T) {
	require := require.New(t)

	s := New(logging.NoLog{}, testConfig(), nil)
	reg := prometheus.NewRegistry()
	require.NoError(s.RegisterMetrics(reg))
	require.Error(s.RegisterMetrics(reg))
	web := httptest.NewServer(s)
	defer web.Close()

	conn := dial(t, web.URL)
	waitConns(t, s, 1)
	require.InDelta(1, gauge(t, reg, "connections"), 0)

	s.Publish([]byte("a"), s.Connections())
	require.InDelta(1, counter(t, reg, "published"), 0)

	require.NoError(conn.Close())
	waitConns(t, s, 0)
	require.InDelta(0, gauge(t, reg, "connections"), 0)
}

func gather(t *testing.T, reg *prometheus.Registry, name string) *dto.Metric {
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == consts.Name+"_pubsub_"+name {
			return f.GetMetric()[0]
		}
	}
	require.FailNow(t, "metric not found", name)
	return nil
}

func gauge(t *testing.T, reg *prometheus.Registry, name string) float64 {
	return gather(t, reg, name).GetGauge().GetValue()
}

func counter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	return gather(t, reg, name).GetCounter().GetValue()
}

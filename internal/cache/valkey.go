// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache holds the Valkey connection and the response cache that
// fronts the public read API. A slow or missing Valkey must never stall a
// read, so every command runs with short timeouts.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Command timeouts. A cache call that exceeds them is treated as a miss.
const (
	dialTimeout = 2 * time.Second
	ioTimeout   = 500 * time.Millisecond
)

// clientName identifies API connections in CLIENT LIST.
const clientName = "menscircle-api"

// ValkeyOptions returns the client options for the response cache.
func ValkeyOptions(host, port, password string) *redis.Options {
	return &redis.Options{
		Addr:         net.JoinHostPort(host, port),
		Password:     password,
		ClientName:   clientName,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	}
}

// ConnectValkey opens the response cache connection and pings it once.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	opts := ValkeyOptions(host, port, password)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey at %s: %w", opts.Addr, err)
	}

	slog.Info("response cache connected", "addr", opts.Addr)
	return client, nil
}

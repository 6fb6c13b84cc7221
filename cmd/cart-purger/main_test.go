package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCartTTLFromEnv(t *testing.T) {
	t.Setenv("CART_TTL_HOURS", "")
	require.Equal(t, 72*time.Hour, cartTTLFromEnv())

	t.Setenv("CART_TTL_HOURS", "24")
	require.Equal(t, 24*time.Hour, cartTTLFromEnv())

	t.Setenv("CART_TTL_HOURS", "-3")
	require.Equal(t, 72*time.Hour, cartTTLFromEnv())

	t.Setenv("CART_TTL_HOURS", "soon")
	require.Equal(t, 72*time.Hour, cartTTLFromEnv())
}

func TestPurgeIntervalFromEnv(t *testing.T) {
	t.Setenv("CART_PURGE_INTERVAL_MINUTES", "")
	require.Equal(t, time.Duration(0), purgeIntervalFromEnv())

	t.Setenv("CART_PURGE_INTERVAL_MINUTES", "15")
	require.Equal(t, 15*time.Minute, purgeIntervalFromEnv())

	t.Setenv("CART_PURGE_INTERVAL_MINUTES", "0")
	require.Equal(t, time.Duration(0), purgeIntervalFromEnv())

	t.Setenv("CART_PURGE_INTERVAL_MINUTES", "hourly")
	require.Equal(t, time.Duration(0), purgeIntervalFromEnv())
}

package integration

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgImage    = "postgres:16-alpine"
	pgUser     = "lims"
	pgPassword = "lims"
	pgDatabase = "lims_test"
)

// pgContainer is a throwaway postgres instance driven over the Docker CLI,
// so the suite needs nothing beyond a working docker binary.
type pgContainer struct {
	id  string
	dsn string
}

// startPostgres launches postgres on a random host port and blocks until
// the server accepts queries.
func startPostgres(ctx context.Context) (*pgContainer, error) {
	out, err := exec.CommandContext(ctx, "docker", "run", "-d", "--rm", "-P",
		"-e", "POSTGRES_USER="+pgUser,
		"-e", "POSTGRES_PASSWORD="+pgPassword,
		"-e", "POSTGRES_DB="+pgDatabase,
		pgImage,
	).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("docker run %s: %v: %s", pgImage, err, out)
	}

	c := &pgContainer{id: strings.TrimSpace(string(out))}
	addr, err := c.hostAddr(ctx)
	if err != nil {
		c.stop()
		return nil, err
	}
	c.dsn = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", pgUser, pgPassword, addr, pgDatabase)

	if err := c.awaitReady(ctx); err != nil {
		c.stop()
		return nil, err
	}
	return c, nil
}

// hostAddr resolves the host side of the container's 5432 port mapping.
func (c *pgContainer) hostAddr(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "docker", "port", c.id, "5432/tcp").Output()
	if err != nil {
		return "", fmt.Errorf("docker port: %w", err)
	}
	// One line per address family; the first is enough.
	addr, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return strings.Replace(addr, "0.0.0.0", "127.0.0.1", 1), nil
}

// awaitReady polls until the server answers a ping. Postgres restarts once
// while initializing, so a single successful TCP connect is not enough.
func (c *pgContainer) awaitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tick := time.NewTicker(250 * time.Millisecond)
	defer tick.Stop()
	for {
		if pool, err := pgxpool.New(ctx, c.dsn); err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("postgres at %s not ready: %w", c.dsn, ctx.Err())
		case <-tick.C:
		}
	}
}

// stop kills the container; --rm lets docker reap it.
func (c *pgContainer) stop() {
	exec.Command("docker", "stop", "-t", "1", c.id).Run()
}

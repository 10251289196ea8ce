// This file starts throwaway databases with testcontainers.
// It backs the integration tests and the standalone cmd/testcontainers executable,
// which passes a nil *testing.T and gets printed output instead of test logs.
//

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ApranavC/mypcf/data"
	"github.com/ApranavC/mypcf/internal/config"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	dbNetworkAlias   = "db"
	mysqlRootPass    = "mypcf_root_password"
	appDatabase      = "mypcf"
	appUser          = "mypcf_app"
	appPassword      = "mypcf_app_password"
	containerTimeout = 90 * time.Second
)

// DatabaseContainer is a running database plus the config that reaches it from the host
type DatabaseContainer struct {
	Network   *testcontainers.DockerNetwork
	Container testcontainers.Container
	Config    *config.Config
}

func (dc *DatabaseContainer) Terminate(t *testing.T) {
	ctx := context.Background()
	if dc.Container != nil {
		if err := dc.Container.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if dc.Network != nil {
		if err := dc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// DockerAvailable reports whether a docker daemon answers on the environment's endpoint
func DockerAvailable(ctx context.Context) bool {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err = cli.Ping(ctx)
	return err == nil
}

// RequireDocker skips t when integration tests cannot run
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if !DockerAvailable(context.Background()) {
		t.Skip("Skipping integration test, docker is not available")
	}
}

// StartDatabase starts a mariadb (mysql) or postgres container and prepares the
// application account. DB_IMAGE overrides the default image.
func StartDatabase(t *testing.T, dbType string) (*DatabaseContainer, error) {
	ctx := context.Background()
	dc := &DatabaseContainer{}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	dc.Network = nw

	cs, err := containerSpec(dbType)
	if err != nil {
		dc.Terminate(t)
		return nil, err
	}

	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cs.image,
			ExposedPorts: []string{string(cs.port)},
			Env:          cs.env,
			WaitingFor:   cs.wait,
			Networks:     []string{nw.Name},
			NetworkAliases: map[string][]string{
				nw.Name: {dbNetworkAlias},
			},
		},
		Started: true,
	})
	if err != nil {
		dc.Terminate(t)
		return nil, fmt.Errorf("failed to start %s: %w", dbType, err)
	}
	dc.Container = dbContainer

	host, err := dbContainer.Host(ctx)
	if err != nil {
		dc.Terminate(t)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := dbContainer.MappedPort(ctx, cs.port)
	if err != nil {
		dc.Terminate(t)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	if cs.dbType == "mysql" {
		if err := performMySQLInit(host, port); err != nil {
			dc.Terminate(t)
			return nil, err
		}
	}

	dc.Config = &config.Config{
		Port:              "3000",
		RequestTimeout:    15 * time.Second,
		LogLevel:          "info",
		DBType:            cs.dbType,
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        appDatabase,
		DBUser:            appUser,
		DBPassword:        appPassword,
		DBConnectionLimit: 5,
		DBLogLevel:        "warn",
		AuthMode:          "header",
		ImportMaxBytes:    5 * 1024 * 1024,
	}

	logMessage(t, "%s container listening at %s:%s", cs.dbType, host, port.Port())
	return dc, nil
}

type dbContainerSpec struct {
	dbType string
	image  string
	port   nat.Port
	env    map[string]string
	wait   wait.Strategy
}

func containerSpec(dbType string) (dbContainerSpec, error) {
	image := os.Getenv("DB_IMAGE")
	switch strings.ToLower(dbType) {
	case "mysql", "mariadb":
		if image == "" {
			image = "mariadb:11"
		}
		port, err := nat.NewPort("tcp", "3306")
		if err != nil {
			return dbContainerSpec{}, err
		}
		return dbContainerSpec{
			dbType: "mysql",
			image:  image,
			port:   port,
			env: map[string]string{
				"MYSQL_ROOT_PASSWORD": mysqlRootPass,
			},
			wait: wait.ForListeningPort(port).WithStartupTimeout(containerTimeout),
		}, nil
	case "postgres", "postgresql":
		if image == "" {
			image = "postgres:16-alpine"
		}
		port, err := nat.NewPort("tcp", "5432")
		if err != nil {
			return dbContainerSpec{}, err
		}
		return dbContainerSpec{
			dbType: "postgres",
			image:  image,
			port:   port,
			env: map[string]string{
				"POSTGRES_PASSWORD": appPassword,
				"POSTGRES_USER":     appUser,
				"POSTGRES_DB":       appDatabase,
			},
			wait: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(containerTimeout),
		}, nil
	}
	return dbContainerSpec{}, fmt.Errorf("unsupported container database type %q", dbType)
}

// performMySQLInit runs the privileges script as root once the server accepts connections
func performMySQLInit(host string, port nat.Port) error {
	db, err := sql.Open("mysql", fmt.Sprintf("root:%s@tcp(%s:%s)/", mysqlRootPass, host, port.Port()))
	if err != nil {
		return fmt.Errorf("failed to connect to mariadb for setup: %w", err)
	}
	defer db.Close()

	// The port opens before the server finishes bootstrapping
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("mariadb not ready after 30 seconds: %w", err)
	}

	if err := executeSQL(db, data.InitdbMariaDBPrivileges); err != nil {
		return fmt.Errorf("failed to execute privileges init sql: %w", err)
	}
	return nil
}

func executeSQL(db *sql.DB, sql string) error {
	lines := strings.Split(sql, "\n")

	var ncls []string
	for _, l := range lines {
		ncls = append(ncls, excludeComment(l))
	}

	l := strings.Join(ncls, " ")
	queries := strings.Split(l, ";")
	queries = queries[:len(queries)-1]

	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

func excludeComment(line string) string {
	d := "\""
	s := "'"
	c := "--"

	var nc string
	ck := line
	mx := len(line) + 1

	for {
		if len(ck) == 0 {
			return nc
		}

		di := strings.Index(ck, d)
		si := strings.Index(ck, s)
		ci := strings.Index(ck, c)

		if di < 0 {
			di = mx
		}
		if si < 0 {
			si = mx
		}
		if ci < 0 {
			ci = mx
		}

		var ei int

		if di < si && di < ci {
			nc += ck[:di+1]
			ck = ck[di+1:]
			ei = strings.Index(ck, d)
		} else if si < di && si < ci {
			nc += ck[:si+1]
			ck = ck[si+1:]
			ei = strings.Index(ck, s)
		} else if ci < di && ci < si {
			return nc + ck[:ci]
		} else {
			return nc + ck
		}

		if ei < 0 {
			return nc + ck
		}
		nc += ck[:ei+1]
		ck = ck[ei+1:]
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}

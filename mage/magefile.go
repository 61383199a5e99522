//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	DOCKER_FILE = "../docker-compose.yml"
	BINARY_NAME = "../bin/speertweet"
	MAIN_PATH   = "../cmd/server"
	ADMIN_PATH  = "../cmd/admin"
	MIGRATE_DIR = "../cmd/migrate"
)

func DockerUp() error {
	fmt.Println("🚀 Starting Postgres and Redis containers...")
	return sh.RunV("docker-compose", "-f", DOCKER_FILE, "up", "-d")
}

func DockerDown() error {
	fmt.Println("🛑 Stopping containers...")
	return sh.RunV("docker-compose", "-f", DOCKER_FILE, "down")
}

func MigrateUp() error {
	fmt.Println("⬆️  Running migrations up...")
	return sh.RunV("go", "run", MIGRATE_DIR, "up")
}

func MigrateDown() error {
	fmt.Println("⬇️  Rolling back 1 migration...")
	return sh.RunV("go", "run", MIGRATE_DIR, "down")
}

func MigrateStatus() error {
	return sh.RunV("go", "run", MIGRATE_DIR, "status")
}

// CreateSuperuser reads SUPERUSER_NAME and SUPERUSER_PASSWORD from the environment
func CreateSuperuser() error {
	return sh.RunV("go", "run", ADMIN_PATH, "createsuperuser",
		"-username", os.Getenv("SUPERUSER_NAME"),
		"-password", os.Getenv("SUPERUSER_PASSWORD"),
	)
}

func Test() error {
	fmt.Println("🧪 Running tests...")
	return sh.RunV("go", "test", "-race", "../...")
}

func Build() error {
	fmt.Println("🔨 Building server binary...")
	return sh.RunV("go", "build", "-o", BINARY_NAME, MAIN_PATH)
}

func Run() error {
	mg.Deps(DockerUp)
	return sh.RunV("go", "run", MAIN_PATH)
}

func Clean() {
	fmt.Println("🧹 Cleaning up...")
	os.Remove(BINARY_NAME)
	mg.Deps(DockerDown)
}

//go:build integration
// +build integration

package tests

import (
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	dbadapter "github.com/InvestationTeam-HRMS/Task-Manager-Backend-sub001/internal/adapter/db"
)

type IntegrationSuiteBase struct {
	suite.Suite

	adminDB    *sqlx.DB
	DB         *sqlx.DB
	testDBName string
}

func (s *IntegrationSuiteBase) SetupSuite() {
	host := envOrDefault("MYSQL_HOST", "127.0.0.1")
	port := envOrDefault("MYSQL_PORT", "3306")
	rootUser := envOrDefault("MYSQL_ROOT_USER", "root")
	rootPassword := envOrDefault("MYSQL_ROOT_PASSWORD", "root")
	database := envOrDefault("MYSQL_TEST_DATABASE", envOrDefault("MYSQL_DATABASE", "hrms_tasks")+"_test")
	params := envOrDefault("MYSQL_PARAMS", "parseTime=true&multiStatements=true&loc=UTC")

	adminDB, err := sqlx.Connect("mysql", mysqlDSN(rootUser, rootPassword, host, port, "", params))
	if err != nil {
		s.T().Skipf("skipping integration suite: could not connect to mysql: %v", err)
	}
	s.adminDB = adminDB

	_, err = s.adminDB.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", database))
	s.Require().NoError(err)

	db, err := sqlx.Connect("mysql", mysqlDSN(rootUser, rootPassword, host, port, database, params))
	s.Require().NoError(err)
	s.DB = db
	s.testDBName = database
}

func (s *IntegrationSuiteBase) TearDownSuite() {
	if s.DB != nil {
		s.Require().NoError(s.DB.Close())
	}

	if s.adminDB != nil && s.testDBName != "" {
		_, err := s.adminDB.Exec(fmt.Sprintf("DROP DATABASE IF EXISTS `%s`", s.testDBName))
		s.Require().NoError(err)
		s.Require().NoError(s.adminDB.Close())
	}
}

// ResetDatabase drops every table and replays the embedded migrations.
func (s *IntegrationSuiteBase) ResetDatabase() {
	_, err := s.DB.Exec(`
SET FOREIGN_KEY_CHECKS = 0;
DROP TABLE IF EXISTS user_devices, notifications, task_activities, task_sequences,
  task_acceptances, completed_tasks, pending_tasks, user_group_members, user_groups,
  projects, users, schema_migrations;
SET FOREIGN_KEY_CHECKS = 1;
`)
	s.Require().NoError(err)
	s.Require().NoError(dbadapter.Migrate(s.DB))
}

func (s *IntegrationSuiteBase) SeedUser(id, name, role string) {
	_, err := s.DB.Exec(`INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)`, id, name, id+"@example.com", role)
	s.Require().NoError(err)
}

func (s *IntegrationSuiteBase) SeedGroup(id string, members ...string) {
	_, err := s.DB.Exec(`INSERT INTO user_groups (id, name) VALUES (?, ?)`, id, id)
	s.Require().NoError(err)
	for _, m := range members {
		_, err := s.DB.Exec(`INSERT INTO user_group_members (group_id, user_id) VALUES (?, ?)`, id, m)
		s.Require().NoError(err)
	}
}

func mysqlDSN(user, password, host, port, database, params string) string {
	if database == "" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/?%s", user, password, host, port, params)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, password, host, port, database, params)
}

func envOrDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

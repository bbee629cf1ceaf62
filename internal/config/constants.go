package config

// DefaultDatabasePath is the default location of the lending database.
const DefaultDatabasePath = "./lending.db"

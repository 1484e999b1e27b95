package repositories

import "context"

// Repository aggregates all repository interfaces behind one handle
type Repository interface {
	// Survey graph
	Survey() SurveyRepository
	Question() QuestionRepository
	AnswerOption() AnswerOptionRepository
	Section() SectionRepository
	Media() MediaRepository

	// Responses
	Response() ResponseRepository

	// Templates
	Template() TemplateRepository

	// User domain (read-only, backed by the identity directory)
	User() UserRepository

	// Dashboard domain
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}

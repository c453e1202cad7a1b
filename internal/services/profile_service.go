package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/oguzatay/project-tracker-api/internal/constants"
	"github.com/oguzatay/project-tracker-api/internal/models"
	"github.com/oguzatay/project-tracker-api/internal/repository"
)

// UserStats holds per-user aggregate counts. Projects are counted by
// membership, tasks by assignment or authorship. totalProjects does not
// exclude archived projects even though the listing endpoint does; the
// mismatch is intentional and tracked for product review.
type UserStats struct {
	TotalProjects     int64 `json:"total_projects"`
	ActiveProjects    int64 `json:"active_projects"`
	CompletedProjects int64 `json:"completed_projects"`
	TotalTasks        int64 `json:"total_tasks"`
	CompletedTasks    int64 `json:"completed_tasks"`
}

// ActivityRecord is a normalized, ephemeral view of a recent project or
// task change. It is rebuilt from the store on every request and never
// persisted.
type ActivityRecord struct {
	ID     uint64    `json:"id"`
	Type   string    `json:"type"`
	Title  string    `json:"title"`
	Action string    `json:"action"`
	Date   time.Time `json:"date"`
}

const (
	ActivityTypeProject = "project"
	ActivityTypeTask    = "task"
)

// ProfileService computes per-user aggregate views.
type ProfileService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *ProfileService {
	return &ProfileService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// ComputeStats counts the user's projects and tasks. The five counters
// run as independent queries, so consistency across them is best-effort
// read-committed; a write landing mid-computation may be reflected in
// some counters and not others.
func (s *ProfileService) ComputeStats(userID uint64) (*UserStats, error) {
	totalProjects, err := s.projectRepo.CountForUser(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	active := models.ProjectStatusActive
	activeProjects, err := s.projectRepo.CountForUser(userID, &active)
	if err != nil {
		return nil, fmt.Errorf("failed to count active projects: %w", err)
	}

	completed := models.ProjectStatusCompleted
	completedProjects, err := s.projectRepo.CountForUser(userID, &completed)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed projects: %w", err)
	}

	totalTasks, err := s.taskRepo.CountForUser(userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	done := models.TaskStatusDone
	completedTasks, err := s.taskRepo.CountForUser(userID, &done)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	return &UserStats{
		TotalProjects:     totalProjects,
		ActiveProjects:    activeProjects,
		CompletedProjects: completedProjects,
		TotalTasks:        totalTasks,
		CompletedTasks:    completedTasks,
	}, nil
}

// ComputeActivity merges the user's most recent project and task changes
// into a single feed: up to five records from each source, ranked by
// update time, newest first, truncated to ten. Records with equal
// timestamps order by type then id so repeated calls on unchanged data
// return the same sequence.
func (s *ProfileService) ComputeActivity(userID uint64) ([]ActivityRecord, error) {
	projects, err := s.projectRepo.RecentForUser(userID, constants.RecentPerSource)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent projects: %w", err)
	}

	tasks, err := s.taskRepo.RecentForUser(userID, constants.RecentPerSource)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent tasks: %w", err)
	}

	records := make([]ActivityRecord, 0, len(projects)+len(tasks))

	for _, project := range projects {
		action := "Project updated"
		if project.Status == models.ProjectStatusCompleted {
			action = "Project completed"
		}
		records = append(records, ActivityRecord{
			ID:     project.ID,
			Type:   ActivityTypeProject,
			Title:  project.Name,
			Action: action,
			Date:   project.UpdatedAt,
		})
	}

	for _, task := range tasks {
		action := "Task updated"
		if task.Status == models.TaskStatusDone {
			action = "Task completed"
		}
		records = append(records, ActivityRecord{
			ID:     task.ID,
			Type:   ActivityTypeTask,
			Title:  task.Title,
			Action: action,
			Date:   task.UpdatedAt,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.After(records[j].Date)
		}
		if records[i].Type != records[j].Type {
			return records[i].Type < records[j].Type
		}
		return records[i].ID < records[j].ID
	})

	if len(records) > constants.ActivityFeedLimit {
		records = records[:constants.ActivityFeedLimit]
	}

	return records, nil
}

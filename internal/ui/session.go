// Package ui implements the interactive terminal session: menus, prompts,
// and colored rendering over the service layer. It holds no state of its
// own beyond the identity of the logged-in actor.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aminrsv/taskboard/internal/models"
	"github.com/aminrsv/taskboard/internal/services"
)

// Session drives one interactive run of the program.
type Session struct {
	in       *bufio.Reader
	out      io.Writer
	auth     *services.AuthService
	projects *services.ProjectService
	tasks    *services.TaskService
}

// NewSession creates a session reading from in and writing to out.
func NewSession(in io.Reader, out io.Writer, auth *services.AuthService, projects *services.ProjectService, tasks *services.TaskService) *Session {
	return &Session{
		in:       bufio.NewReader(in),
		out:      out,
		auth:     auth,
		projects: projects,
		tasks:    tasks,
	}
}

// Run shows the entry menu and dispatches to the admin or user flows. It
// returns when the user quits.
func (s *Session) Run() error {
	for {
		s.println(titleStyle.Render("taskboard"))
		choice := s.menu("Login as:", "Admin", "Normal user", "Quit")
		switch choice {
		case "1":
			s.adminFlow()
		case "2":
			s.userFlow()
		case "3":
			s.println(menuStyle.Render("Come back soon."))
			return nil
		default:
			s.fail("The answer is invalid, try again.")
		}
	}
}

// --- admin flow ---

func (s *Session) adminFlow() {
	username := s.prompt("Please enter your username:")
	password := s.prompt("Please enter your password:")

	if _, err := s.auth.AdminLogin(services.LoginInput{Username: username, Password: password}); err != nil {
		s.println(renderError(err))
		return
	}
	s.success("You have successfully logged in.")

	for {
		choice := s.menu("What do you want to do?", "Ban a user", "Unban a user", "Back")
		switch choice {
		case "1":
			s.setActivity(models.ActivityInactive, "User successfully banned.")
		case "2":
			s.setActivity(models.ActivityActive, "User successfully unbanned.")
		case "3":
			return
		default:
			s.fail("The answer is invalid, try again.")
		}
	}
}

func (s *Session) setActivity(status models.ActivityStatus, onSuccess string) {
	username := s.prompt("Enter the username:")
	if err := s.auth.SetUserActivity(username, status); err != nil {
		s.println(renderError(err))
		return
	}
	s.success(onSuccess)
}

// --- user flow ---

func (s *Session) userFlow() {
	user := s.authenticate()
	if user == nil {
		return
	}
	defer func() {
		if err := s.auth.Logout(user.Username); err != nil {
			s.println(renderError(err))
		}
	}()

	for {
		choice := s.menu("What do you want to do?",
			"Create a project", "Open a project", "List my projects", "Logout")
		switch choice {
		case "1":
			s.createProject(user.Username)
		case "2":
			id := s.prompt("Enter the project id:")
			s.projectMenu(user.Username, id)
		case "3":
			s.listProjects(user.Username)
		case "4":
			s.println(menuStyle.Render("Come back soon."))
			return
		default:
			s.fail("The answer is invalid, try again.")
		}
	}
}

func (s *Session) authenticate() *models.User {
	for {
		answer := s.prompt("Welcome, do you already have an account? (yes / no / quit):")
		switch answer {
		case "yes":
			username := s.prompt("Please enter your username:")
			password := s.prompt("Please enter your password:")
			user, err := s.auth.Login(services.LoginInput{Username: username, Password: password})
			if err != nil {
				s.println(renderError(err))
				continue
			}
			s.success("You have successfully logged in.")
			return user
		case "no":
			user, err := s.auth.Signup(services.SignupInput{
				Username: s.prompt("Please enter your username:"),
				Password: s.prompt("Please enter your password:"),
				Email:    s.prompt("Please enter your email:"),
			})
			if err != nil {
				s.println(renderError(err))
				continue
			}
			s.success("Your account has been created successfully.")
			return user
		case "quit":
			return nil
		default:
			s.fail("The answer is invalid, try again.")
		}
	}
}

func (s *Session) createProject(actor string) {
	input := services.CreateProjectInput{
		Admin:       actor,
		ProjectID:   s.prompt("Enter a project id:"),
		Title:       s.prompt("Enter the project title:"),
		Description: s.prompt("Enter the project description:"),
	}
	if _, err := s.projects.CreateProject(input); err != nil {
		s.println(renderError(err))
		return
	}
	s.success("Project created successfully.")
}

func (s *Session) listProjects(actor string) {
	user, err := s.auth.RefreshUserView(actor)
	if err != nil {
		s.println(renderError(err))
		return
	}

	ids := make([]string, 0, len(user.Projects))
	for id := range user.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s.println(fmt.Sprintf("%s  %s %s", menuKeyStyle.Render(id), user.Projects[id].Title, dimStyle.Render("(admin)")))
	}
	for _, id := range user.AssignedProjects {
		s.println(fmt.Sprintf("%s  %s", menuKeyStyle.Render(id), dimStyle.Render("(member)")))
	}
	if len(ids) == 0 && len(user.AssignedProjects) == 0 {
		s.println(dimStyle.Render("No projects yet."))
	}
}

// --- project menu ---

func (s *Session) projectMenu(actor, projectID string) {
	for {
		project, err := s.projects.GetProject(actor, projectID)
		if err != nil {
			s.println(renderError(err))
			return
		}

		s.println(titleStyle.Render(project.Title) + " " + dimStyle.Render(project.ProjectID))
		if len(project.Members) > 0 {
			s.println("members: " + strings.Join(project.Members, ", "))
		}
		s.println(renderTaxonomy(project.Tasks))

		choice := s.menu("What do you want to do?",
			"Create a task", "Open a task", "Add a member", "Remove a member",
			"Rename the project", "Delete the project", "Back")
		switch choice {
		case "1":
			s.createTask(actor, projectID)
		case "2":
			taskID := s.prompt("Enter the task id:")
			s.taskMenu(actor, projectID, taskID)
		case "3":
			s.addMember(actor, projectID)
		case "4":
			s.removeMember(actor, projectID)
		case "5":
			if _, err := s.projects.RenameProject(actor, projectID, s.prompt("Enter the new title:")); err != nil {
				s.println(renderError(err))
			} else {
				s.success("Project renamed successfully.")
			}
		case "6":
			if s.confirmDelete(projectID) {
				if err := s.projects.DeleteProject(actor, projectID); err != nil {
					s.println(renderError(err))
				} else {
					s.success("Project deleted successfully.")
				}
				return
			}
		case "7":
			return
		default:
			s.fail("The answer is invalid, try again.")
		}
	}
}

func (s *Session) confirmDelete(projectID string) bool {
	for {
		answer := s.prompt(fmt.Sprintf("Are you sure you want to delete %s? (yes / no):", projectID))
		switch answer {
		case "yes":
			return true
		case "no":
			return false
		default:
			s.fail("Unacceptable answer, please answer yes or no.")
		}
	}
}

func (s *Session) addMember(actor, projectID string) {
	input := services.AddMemberInput{
		Actor:     actor,
		ProjectID: projectID,
		Username:  s.prompt("Enter the username:"),
	}
	if err := s.projects.AddMember(input); err != nil {
		s.println(renderError(err))
		return
	}
	s.success("Member added successfully.")
}

func (s *Session) removeMember(actor, projectID string) {
	input := services.AddMemberInput{
		Actor:     actor,
		ProjectID: projectID,
		Username:  s.prompt("Enter the username:"),
	}
	if err := s.projects.RemoveMember(input); err != nil {
		s.println(renderError(err))
		return
	}
	s.success("Member removed successfully.")
}

func (s *Session) createTask(actor, projectID string) {
	input := services.CreateTaskInput{
		Actor:       actor,
		ProjectID:   projectID,
		Title:       s.prompt("Enter the task title (may be empty):"),
		Description: s.prompt("Enter the task description:"),
	}
	task, err := s.tasks.CreateTask(input)
	if err != nil {
		s.println(renderError(err))
		return
	}
	s.success(fmt.Sprintf("Task %s created successfully.", task.TaskID))
}

// --- task menu ---

func (s *Session) taskMenu(actor, projectID, taskID string) {
	for {
		task, err := s.tasks.GetTask(actor, projectID, taskID)
		if err != nil {
			s.println(renderError(err))
			return
		}
		s.println(renderTask(task))

		choice := s.menu("What do you want to do?",
			"Change status/priority", "Assign members", "Unassign a member",
			"Add a comment", "Clear comments", "Retitle", "Change deadline",
			"Show history", "Delete the task", "Back")
		switch choice {
		case "1":
			s.moveTask(actor, projectID, taskID)
		case "2":
			names := strings.Split(s.prompt("Enter usernames (comma separated):"), ",")
			for i := range names {
				names[i] = strings.TrimSpace(names[i])
			}
			if _, err := s.tasks.AssignMembers(services.AssignMembersInput{
				Actor: actor, ProjectID: projectID, TaskID: taskID, Usernames: names,
			}); err != nil {
				s.println(renderError(err))
			} else {
				s.success("Members assigned successfully.")
			}
		case "3":
			if _, err := s.tasks.UnassignMember(actor, projectID, taskID, s.prompt("Enter the username:")); err != nil {
				s.println(renderError(err))
			} else {
				s.success("Member unassigned successfully.")
			}
		case "4":
			if _, err := s.tasks.AddComment(actor, projectID, taskID, s.prompt("Enter the comment:")); err != nil {
				s.println(renderError(err))
			} else {
				s.success("Comment added successfully.")
			}
		case "5":
			if _, err := s.tasks.ClearComments(actor, projectID, taskID); err != nil {
				s.println(renderError(err))
			} else {
				s.success("Comments cleared successfully.")
			}
		case "6":
			if _, err := s.tasks.RetitleTask(actor, projectID, taskID, s.prompt("Enter the new title:")); err != nil {
				s.println(renderError(err))
			} else {
				s.success("Task retitled successfully.")
			}
		case "7":
			s.changeDeadline(actor, projectID, taskID)
		case "8":
			lines, err := s.tasks.History(actor, projectID, taskID)
			if err != nil {
				s.println(renderError(err))
				break
			}
			for _, line := range lines {
				s.println(dimStyle.Render(line))
			}
		case "9":
			if err := s.tasks.DeleteTask(actor, projectID, taskID); err != nil {
				s.println(renderError(err))
			} else {
				s.success("Task deleted successfully.")
				return
			}
		case "10":
			return
		default:
			s.fail("The answer is invalid, try again.")
		}
	}
}

func (s *Session) moveTask(actor, projectID, taskID string) {
	input := services.MoveTaskInput{
		Actor:     actor,
		ProjectID: projectID,
		TaskID:    taskID,
		Status:    models.TaskStatus(strings.ToUpper(s.prompt("Enter the new status (BACKLOG/TODO/DOING/DONE/ARCHIVED):"))),
		Priority:  models.TaskPriority(strings.ToUpper(s.prompt("Enter the new priority (LOW/MEDIUM/HIGH/CRITICAL):"))),
	}
	if _, err := s.tasks.MoveTask(input); err != nil {
		s.println(renderError(err))
		return
	}
	s.success("Task moved successfully.")
}

func (s *Session) changeDeadline(actor, projectID, taskID string) {
	raw := s.prompt(fmt.Sprintf("Enter the new deadline (%s):", models.TimeLayout))
	deadline, err := models.ParseTimestamp(raw)
	if err != nil {
		s.fail("Invalid timestamp, try again.")
		return
	}
	if _, err := s.tasks.ChangeDeadline(actor, projectID, taskID, deadline); err != nil {
		s.println(renderError(err))
		return
	}
	s.success("Deadline changed successfully.")
}

// --- primitives ---

func (s *Session) prompt(question string) string {
	fmt.Fprintln(s.out, promptStyle.Render(question))
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *Session) menu(question string, options ...string) string {
	fmt.Fprintln(s.out, promptStyle.Render(question))
	for i, opt := range options {
		fmt.Fprintf(s.out, "%s%s\n", menuKeyStyle.Render(fmt.Sprintf("%d)", i+1)), menuStyle.Render(opt))
	}
	line, _ := s.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *Session) success(msg string) {
	fmt.Fprintln(s.out, successStyle.Render(msg))
}

func (s *Session) fail(msg string) {
	fmt.Fprintln(s.out, errorStyle.Render(msg))
}

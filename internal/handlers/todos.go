package handlers

import (
	"net/http"
	"strconv"
	"time"

	"todohub/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errInvalidID        = "invalid todo id"
	errInvalidCompleted = "invalid 'completed' value; use true or false"
)

type createTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// updateTodoRequest uses pointers so an explicitly provided false/empty value
// is distinguishable from an omitted field.
type updateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func todoIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}

// @Summary      List todos
// @Description  Filters: completed (true/false), priority (low/medium/high), search (substring on title, case-insensitive). Filters compose with AND.
// @Tags         todos
// @Produce      json
// @Param        completed  query  string  false  "Completion filter"  Enums(true,false)
// @Param        priority   query  string  false  "Priority filter"    Enums(low,medium,high)
// @Param        search     query  string  false  "Title substring"
// @Success      200  {object}  map[string]interface{}  "count, todos"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/todos [get]
// @Security     BearerAuth
func (h *Handler) listTodos(c *gin.Context) {
	identity := callerIdentity(c)

	var filter service.TodoFilter
	if qs := c.Query("completed"); qs != "" {
		v, err := strconv.ParseBool(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidCompleted})
			return
		}
		filter.Completed = &v
	}
	filter.Priority = c.Query("priority")
	filter.Search = c.Query("search")

	todos, err := h.services.Todos.List(c.Request.Context(), identity.ID, filter)
	if err != nil {
		h.respondError(c, err, "todos_list_failed", "user_id", identity.ID)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(todos),
		"todos": todos,
	})
}

// @Summary      Create todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      createTodoRequest  true  "Todo payload"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/todos [post]
// @Security     BearerAuth
func (h *Handler) createTodo(c *gin.Context) {
	identity := callerIdentity(c)

	var req createTodoRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	todo, err := h.services.Todos.Create(c.Request.Context(), identity.ID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err, "todo_create_failed", "user_id", identity.ID)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"todo": todo})
}

// @Summary      Get todo
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/todos/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTodo(c *gin.Context) {
	identity := callerIdentity(c)
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.services.Todos.Get(c.Request.Context(), identity.ID, id)
	if err != nil {
		h.respondError(c, err, "todo_get_failed", "user_id", identity.ID, "todo_id", id)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// @Summary      Update todo (partial)
// @Description  Only provided fields overwrite; completed=false is an overwrite, not a no-op.
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Todo id"
// @Param        body  body      updateTodoRequest  true  "Fields to update"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/v1/todos/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTodo(c *gin.Context) {
	identity := callerIdentity(c)
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	var req updateTodoRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	todo, err := h.services.Todos.Update(c.Request.Context(), identity.ID, id, service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondError(c, err, "todo_update_failed", "user_id", identity.ID, "todo_id", id)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// @Summary      Delete todo
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo id"
// @Success      200  {object}  map[string]interface{}  "deleted todo"
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/todos/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTodo(c *gin.Context) {
	identity := callerIdentity(c)
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.services.Todos.Delete(c.Request.Context(), identity.ID, id)
	if err != nil {
		h.respondError(c, err, "todo_delete_failed", "user_id", identity.ID, "todo_id", id)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// @Summary      Toggle todo completion
// @Tags         todos
// @Produce      json
// @Param        id   path      int  true  "Todo id"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/todos/{id}/toggle [patch]
// @Security     BearerAuth
func (h *Handler) toggleTodo(c *gin.Context) {
	identity := callerIdentity(c)
	id, ok := todoIDParam(c)
	if !ok {
		return
	}

	todo, err := h.services.Todos.Toggle(c.Request.Context(), identity.ID, id)
	if err != nil {
		h.respondError(c, err, "todo_toggle_failed", "user_id", identity.ID, "todo_id", id)
		return
	}

	c.JSON(http.StatusOK, gin.H{"todo": todo})
}

// @Summary      Todo stats
// @Tags         todos
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/todos/stats [get]
// @Security     BearerAuth
func (h *Handler) todoStats(c *gin.Context) {
	identity := callerIdentity(c)

	stats, err := h.services.Stats.TodoStats(c.Request.Context(), identity.ID)
	if err != nil {
		h.respondError(c, err, "todo_stats_failed", "user_id", identity.ID)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

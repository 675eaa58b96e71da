package mcpserver

// PlannerConventions describes the data conventions that LLM consumers
// must follow when reading or mutating the calendar through MCP tools.
const PlannerConventions = `# Planner Data Conventions

Every tool argument and result follows these conventions.

## Dates and times

- Dates are local-time ISO strings: ` + "`" + `YYYY-MM-DD` + "`" + ` (e.g. ` + "`" + `2025-03-10` + "`" + `).
- Clock times are 24-hour ` + "`" + `HH:MM` + "`" + ` strings (e.g. ` + "`" + `09:00` + "`" + `, ` + "`" + `18:30` + "`" + `).
- Date strings sort chronologically: compare them as plain text.

## Events

An event belongs to exactly one day and carries:

- ` + "`" + `title` + "`" + ` (required, non-empty)
- ` + "`" + `category` + "`" + ` id, one of the ids returned by ` + "`" + `list_categories` + "`" + `
  (unknown ids display as the fallback category ` + "`" + `other` + "`" + `)
- ` + "`" + `startTime` + "`" + ` and ` + "`" + `endTime` + "`" + ` clock strings
- ` + "`" + `durationType` + "`" + `: one of ` + "`" + `custom` + "`" + `, ` + "`" + `allday` + "`" + `, ` + "`" + `30min` + "`" + `, ` + "`" + `1h` + "`" + `, ` + "`" + `2h` + "`" + `, ` + "`" + `3h` + "`" + `.
  For presets the end time is derived from the start time; ` + "`" + `allday` + "`" + ` spans
  00:00 to 23:59; only ` + "`" + `custom` + "`" + ` uses the supplied end time, which must be
  after the start time.

## Recurrence

Recurrence is a JSON object on event creation:

- ` + "`" + `{"type": "days", "interval": N}` + "`" + ` repeats every N days (N >= 1)
- ` + "`" + `{"type": "weeks", "weekdays": [1, 3, 5]}` + "`" + ` repeats on the listed weekdays,
  where 0 is Sunday and 6 is Saturday
- ` + "`" + `{"type": "months", "interval": N}` + "`" + ` repeats every N months (1 to 12)

Creating a recurring event stores one independent instance per occurrence
within the next 365 days. All instances share a ` + "`" + `recurrenceId` + "`" + `; deleting
any instance deletes the whole group, while updates touch only the one
instance.

## To-dos

A to-do belongs to one day and has ` + "`" + `text` + "`" + ` (non-empty) and a
` + "`" + `completed` + "`" + ` flag toggled by the ` + "`" + `toggle_todo` + "`" + ` tool.

## Categories

The four default categories ` + "`" + `work` + "`" + `, ` + "`" + `personal` + "`" + `, ` + "`" + `health` + "`" + `, and
` + "`" + `other` + "`" + ` always exist and cannot be removed.
`

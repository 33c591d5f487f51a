package mcpserver

// NoteGuide explains jot's note model to LLM consumers.
const NoteGuide = `# jot notes

Each note is one row with a numeric id, an optional alias (up to 5
characters, never purely numeric), a status, an optional due date
(YYYY-MM-DD) and a free-text description. The first line of the
description is the summary shown in listings.

## Statuses

| id | label | glyph |
|----|-------|-------|
| 1  | note  | -     |
| 2  | todo  |       |
| 3  | done  | x     |
| 4  | drop  | 0     |
| 5  | part  | /     |

Listings show statuses 1, 2 and 5 unless all=true.

## Nesting

Notes can be nested under one or more parents. In nested mode a note is
listed under each of its parents, indented by generation ("> ", "-> ",
"--> " ...). Notes caught in a parent/child loop that no top-level note
reaches are marked "? ". Notes without relations come last.

## Row markers

The last column of a summary row tells whether the description continues:
"|" complete, "~" first line cut, "v" more lines follow, "&" both.
`

package tui

// helpMarkdown is the help overlay body, rendered with glamour.
const helpMarkdown = `
# choreboard

## Cards
- **Swipe right** on a to-do card to mark it *done*.
- **Swipe left** to mark it *skipped*.
- A swipe must travel past the threshold before release, or the card springs back.
- **Press and hold** a finished card to put it back on the to-do list.

## Kids
- Click a tab, or use **tab** / **shift+tab**, to show one kid's chores.
- **All** shows everyone.

## Other keys
| key | action |
| --- | --- |
| r | reload from the store |
| c | copy the board to the clipboard |
| ? | toggle this help |
| q | quit |
`

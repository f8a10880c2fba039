// Package harness runs trip scenarios against a real ryokou service.
//
// A scenario is a YAML file describing a sequence of steps (adding items,
// deleting them, moving the list filter) with expectations about the derived
// list checked along the way and at the end.
//
// # Scenario Format
//
//	name: day_fallback
//	description: "Deleting the last item of a selected day resets the filter"
//	timezone: Asia/Tokyo           # optional, default UTC
//	steps:
//	  - add: { id: a, type: activity, title: Temple, at: "2024-05-01 10:00", price: 500 }
//	  - select_day: "2024-05-01"
//	  - expect:
//	      filter: "2024-05-01"
//	      sections:
//	        - { key: "2024-05-01", total: 500, titles: [Temple] }
//	  - delete: a
//	expect:
//	  filter: all
//	  grand_total: 0
//
// Each step holds exactly one of: add, delete, delete_day, select_day,
// select_month, select_all_days, show_all_dates, expect.
//
// An add step with fails: true expects the item to be rejected as invalid
// input. Any other failing step fails the scenario.
//
// # Determinism
//
// Item ids come from the add steps and the clock never enters the derived
// list, so a scenario always produces the same trace. RunWithGolden compares
// that trace against testdata/golden/<name>.golden.
package harness

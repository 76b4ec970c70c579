// Package models defines the core domain models for SplitTrip.
//
// # Models
//
//   - User: a registered account. Users take part in tours as members.
//   - Tour: a trip shared by a group of members, led by a captain.
//   - Member: a user's membership of one tour.
//   - Expense: an amount one member paid on behalf of some participants.
//
// Balances and settlements are never stored. They are derived from a tour's
// members and expenses by the calculator package each time they are requested.
//
// # Design Principles
//
// 1. **Money is decimal**: amounts use shopspring/decimal, never float64
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Validate at the edge**: expenses are normalized and validated before they are stored
package models

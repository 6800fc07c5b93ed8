package service

import "time"

// SetAuthCost lowers the bcrypt cost so tests do not spend seconds hashing.
func SetAuthCost(s AuthService, cost int) { s.(*authService).cost = cost }

// SetMovementClock pins the default movement date.
func SetMovementClock(s MovementService, now func() time.Time) { s.(*movementService).now = now }

// Package domain contains the core business entities of the attendance
// service: attendance logs and their audit trail, user accounts, credentials
// and the license seat counter. It has no knowledge of storage or transport.
package domain

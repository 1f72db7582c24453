// Package mcp2515 provides a transaction-level driver for the Microchip
// MCP2515 stand-alone CAN controller attached over SPI.
//
// It includes:
//   - The controller's SPI command protocol (reset, register read/write,
//     bit-modify, status reads, buffer access) with exact byte framing
//   - A Bus abstraction so the protocol core is testable without hardware
//   - A periph.io backed Bus implementation for Linux hosts
//   - An in-memory simulated controller for tests and simulations
//
// The package covers the command/register transaction layer only. CAN frame
// construction and parsing, acceptance filter configuration and
// interrupt-driven message retrieval are left to higher layers built on
// these primitives.
package mcp2515

// Package mock provides deterministic fakes of the appliance hardware for
// tests: a scripted time source, a virtual clock whose Sleep returns at once,
// recording display and indicator drivers, and a fake I2C connection.
package mock

// Package mqtt provides the generator's MQTT publishing session.
//
// After a successful run the generator announces the new configuration on
// the installation's message bus so that runtime services can reload:
//
//	graylogic/system/confgen/<site>   (retained JSON notice)
//
// # Security Considerations
//
//   - TLS should be enabled for remote brokers (cfg.Broker.TLS=true)
//   - Credentials come from GRAYLOGIC_MQTT_USERNAME / GRAYLOGIC_MQTT_PASSWORD
//
// # Usage
//
//	client, err := mqtt.Connect(ctx, cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishRetained(mqtt.Topics{}.ConfgenRun("home"), payload)
package mqtt

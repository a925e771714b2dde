package postgres

import "gorm.io/gorm"

// orderChangeNotifyDDL installs the function and trigger feeding the
// order_changes LISTEN/NOTIFY channel. The payload is the order id in
// canonical UUID text form; listeners re-read the order, so the payload
// carries identity only. Statements are applied one at a time; each is
// idempotent, so re-running at every startup is safe.
var orderChangeNotifyDDL = []string{
	`CREATE OR REPLACE FUNCTION notify_order_changes() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('order_changes', NEW.id::text);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`,

	`DROP TRIGGER IF EXISTS orders_notify_change ON orders`,

	`CREATE TRIGGER orders_notify_change
AFTER INSERT OR UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION notify_order_changes()`,
}

// InstallOrderChangeNotifications wires the orders table to the
// order_changes channel. Must run after the orders table exists.
func InstallOrderChangeNotifications(db *gorm.DB) error {
	for _, stmt := range orderChangeNotifyDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"netmesh-api/pkg/api"
	"netmesh-api/pkg/attribution"
	"netmesh-api/pkg/database"
	"netmesh-api/pkg/event"
	"netmesh-api/pkg/geocode"
	"netmesh-api/pkg/identity"
	"netmesh-api/pkg/models"
)

var (
	debugFlag bool
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "netmesh-api",
	Short: "Backend for collecting network performance measurements",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging based on the debug flag
		var logLevel slog.Level
		if debugFlag {
			logLevel = slog.LevelDebug
		} else {
			logLevel = slog.LevelInfo
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
		slog.SetDefault(logger)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the measurement collection API server",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		var resolver geocode.Resolver
		resolver, err = geocode.NewGoogleResolver()
		if err != nil {
			logger.Error("Error creating geocoder", "error", err)
			os.Exit(1)
		}
		if viper.GetBool("redis.enabled") {
			resolver = geocode.NewCachedResolver(resolver)
			logger.Debug("Geocode caching enabled")
		}

		var events *event.Publisher
		if viper.GetBool("amqp.enabled") {
			events, err = event.NewPublisher()
			if err != nil {
				logger.Error("Error connecting to message broker", "error", err)
				os.Exit(1)
			}
			defer events.Close()
		}

		attr := attribution.NewService(db, resolver, events)
		srv := api.New(db, identity.NewResolver(db), attr)

		if err := srv.Run(); err != nil {
			logger.Error("Error running server", "error", err)
			os.Exit(1)
		}
	},
}

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		logger.Info("Database schema initialized successfully")
	},
}

var createOfficeCmd = &cobra.Command{
	Use:   "create-office [region]",
	Short: "Register a regional office",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		region := args[0]
		if !models.IsValidRegion(region) {
			logger.Error("Unknown region code", "region", region)
			os.Exit(1)
		}

		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		address, _ := cmd.Flags().GetString("address")
		email, _ := cmd.Flags().GetString("email")

		office := &models.RegionalOffice{
			Region:  region,
			Address: address,
			Email:   email,
		}
		if err := db.CreateOffice(context.Background(), office); err != nil {
			logger.Error("Error creating office", "error", err)
			os.Exit(1)
		}
		logger.Info("Office created successfully", "region", region, "id", office.ID)
	},
}

var createAgentCmd = &cobra.Command{
	Use:   "create-agent [email] [region]",
	Short: "Create an agent account attached to a regional office",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		office, err := db.GetOfficeByRegion(context.Background(), args[1])
		if err != nil {
			logger.Error("Error looking up office", "error", err)
			os.Exit(1)
		}

		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			logger.Error("A password is required (--password)")
			os.Exit(1)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Error hashing password", "error", err)
			os.Exit(1)
		}

		firstName, _ := cmd.Flags().GetString("first-name")
		lastName, _ := cmd.Flags().GetString("last-name")
		isAdmin, _ := cmd.Flags().GetBool("admin")

		agent := &models.Agent{
			Email:         args[0],
			PasswordHash:  string(hash),
			FirstName:     firstName,
			LastName:      lastName,
			OfficeID:      office.ID,
			IsFieldTester: !isAdmin,
			IsStaff:       isAdmin,
			IsActive:      true,
		}
		if err := db.CreateAgent(context.Background(), agent); err != nil {
			logger.Error("Error creating agent", "error", err)
			os.Exit(1)
		}
		logger.Info("Agent created successfully", "email", agent.Email, "id", agent.ID, "staff", isAdmin)
	},
}

var enrollDeviceCmd = &cobra.Command{
	Use:   "enroll-device [mobile|rfc] [agent-email] [serial]",
	Short: "Enroll a test device for an agent and print its submission token",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		kind := args[0]
		if kind != "mobile" && kind != "rfc" {
			logger.Error("Device kind must be 'mobile' or 'rfc'")
			os.Exit(1)
		}

		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ctx := context.Background()
		agent, err := db.GetAgentByEmail(ctx, args[1])
		if err != nil {
			logger.Error("Error looking up agent", "error", err)
			os.Exit(1)
		}

		token := &models.AuthToken{
			Token:    uuid.NewString(),
			AgentID:  agent.ID,
			IsActive: true,
		}

		switch kind {
		case "mobile":
			device := &models.MobileDevice{
				AgentID:      agent.ID,
				SerialNumber: args[2],
				IsActive:     true,
			}
			if err := db.CreateMobileDevice(ctx, device); err != nil {
				logger.Error("Error enrolling device", "error", err)
				os.Exit(1)
			}
			token.DeviceKind = models.KindMobile
			token.MobileDeviceID = device.ID
		case "rfc":
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				logger.Error("A device name is required for rfc devices (--name)")
				os.Exit(1)
			}
			taken, err := db.RfcDeviceNameTaken(ctx, name)
			if err != nil {
				logger.Error("Error checking device name", "error", err)
				os.Exit(1)
			}
			if taken {
				logger.Error("Device name already taken", "name", name)
				os.Exit(1)
			}
			device := &models.RfcDevice{
				AgentID:      agent.ID,
				Name:         name,
				SerialNumber: args[2],
				IsActive:     true,
			}
			if err := db.CreateRfcDevice(ctx, device); err != nil {
				logger.Error("Error enrolling device", "error", err)
				os.Exit(1)
			}
			token.DeviceKind = models.KindRFC
			token.RfcDeviceID = device.ID
		}

		if err := db.CreateToken(ctx, token); err != nil {
			logger.Error("Error creating token", "error", err)
			os.Exit(1)
		}

		logger.Info("Device enrolled successfully", "kind", kind, "agent", agent.Email)
		fmt.Println(token.Token)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")

	createOfficeCmd.Flags().String("address", "", "Office street address")
	createOfficeCmd.Flags().String("email", "", "Office contact email")

	createAgentCmd.Flags().String("password", "", "Login password for the agent")
	createAgentCmd.Flags().String("first-name", "", "Agent first name")
	createAgentCmd.Flags().String("last-name", "", "Agent last name")
	createAgentCmd.Flags().Bool("admin", false, "Create a staff account instead of a field tester")

	enrollDeviceCmd.Flags().String("name", "", "Unique device name (rfc devices only)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(createOfficeCmd)
	rootCmd.AddCommand(createAgentCmd)
	rootCmd.AddCommand(enrollDeviceCmd)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./")
	viper.AddConfigPath("$HOME/.netmesh-api")
	viper.AddConfigPath("/etc/netmesh-api/")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		os.Exit(1)
	}
}

func initDB() (*database.DB, error) {
	db, err := database.NewDB()
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}

	err = db.InitSchema(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

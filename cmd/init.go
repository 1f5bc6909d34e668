package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AliSafari-IT/setup-data/template"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new setup-data project",
	Long:  `Create the starter configuration, the schema directory and a set of sample entity sources.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.PostgreSQL
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(dbType)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}

func initializeProject(dbType template.DatabaseType) error {
	tmpl := template.NewProjectTemplate(dbType)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := map[string]string{}
	configExists := false
	if _, err := os.Stat("setup-data.config.yaml"); err == nil {
		configExists = true
	} else {
		files["setup-data.config.yaml"] = tmpl.GetConfig()
	}

	// Leave existing entity sources alone; samples only fill an empty dir.
	samplesExist := false
	if entries, err := os.ReadDir("schemas"); err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				continue
			}
			if strings.HasSuffix(name, ".cs") || strings.HasSuffix(name, ".ts") || strings.HasSuffix(name, ".json") {
				samplesExist = true
				break
			}
		}
	}
	if !samplesExist {
		files["schemas/Category.cs"] = tmpl.GetCategorySource()
		files["schemas/Product.cs"] = tmpl.GetProductSource()
		files["schemas/Review.ts"] = tmpl.GetReviewSource()
	}

	for filePath, content := range files {
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", filePath, err)
		}
	}

	if err := handleEnvFile(tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	fmt.Printf("✅ Successfully initialized setup-data project with %s database support\n", dbType)
	fmt.Println()
	fmt.Println("📁 Project structure created:")
	for _, dir := range directories {
		fmt.Printf("   %s/\n", dir)
	}

	if configExists {
		fmt.Println("ℹ️  Kept existing setup-data.config.yaml")
	} else {
		fmt.Println()
		fmt.Println("📝 Configuration file created:")
		fmt.Println("   setup-data.config.yaml")
	}
	if samplesExist {
		fmt.Println("ℹ️  Skipped sample sources (schemas already has entity files)")
	}

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Println()
		fmt.Println("ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Println()
	fmt.Printf("🚀 Next steps:\n")
	fmt.Printf("   setup-data parse      # Inspect the parsed entities\n")
	fmt.Printf("   setup-data generate   # Write mock-data artifacts\n")
	fmt.Printf("   setup-data seed       # Populate the database\n")

	return nil
}

func handleEnvFile(defaultEnvContent string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}
	existingStr += "\n# Added by setup-data\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
